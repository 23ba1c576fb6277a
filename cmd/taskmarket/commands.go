package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"taskmarket/auth"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"

	"github.com/samber/lo"
)

type command struct {
	name   string
	args   string
	help   string
	action string
	// signedIn commands receive the restored session
	signedIn bool
	run      func(ctx context.Context, a *app, session auth.Session, args []string) error
}

var commands = []command{
	{name: "signup", args: "-first -last -phone -address -email -password -confirm", help: "create an account", action: "Sign Up Failed", run: signUp},
	{name: "login", args: "-email -password", help: "sign in", action: "Login Failed", run: signIn},
	{name: "logout", help: "sign out", action: "Logout Failed", run: signOut},
	{name: "whoami", help: "show your profile and counters", action: "Profile", signedIn: true, run: whoAmI},
	{name: "profile", args: "-first -last -phone -address", help: "edit your profile", action: "Update Failed", signedIn: true, run: editProfile},
	{name: "photo", args: "<file>", help: "upload a profile picture", action: "Upload Failed", signedIn: true, run: uploadPhoto},
	{name: "post", args: "-category <description>", help: "publish a task", action: "Post Failed", signedIn: true, run: createPost},
	{name: "feed", help: "list every post, newest first", action: "Feed", run: feed},
	{name: "mine", help: "list the posts you created", action: "My Posts", signedIn: true, run: myPosts},
	{name: "participating", help: "list the posts you accepted", action: "Participating", signedIn: true, run: participating},
	{name: "show", args: "<postId>", help: "show one post", action: "Post", run: showPost},
	{name: "search", args: "[-category] <text>", help: "full text search over descriptions", action: "Search Failed", run: searchPosts},
	{name: "interest", args: "<postId>", help: "accept a task", action: "Accept Failed", signedIn: true, run: expressInterest},
	{name: "confirm", args: "<postId> <userId>", help: "confirm a helper on your post", action: "Confirm Failed", signedIn: true, run: confirmUser},
	{name: "status", args: "<postId> <Active|Completed|Finished>", help: "change the status of your post", action: "Status Update Failed", signedIn: true, run: setStatus},
	{name: "delete", args: "<postId>", help: "delete your post", action: "Delete Failed", signedIn: true, run: deletePost},
	{name: "chat", args: "<postId> <userId>", help: "open the chat of a post with a user", action: "Chat Failed", signedIn: true, run: openChat},
	{name: "inbox", help: "list your chats", action: "Inbox", signedIn: true, run: inbox},
	{name: "messages", args: "<chatId>", help: "print a conversation", action: "Chat", signedIn: true, run: messages},
	{name: "send", args: "[-token] <chatId> <text>", help: "send a message", action: "Send Failed", signedIn: true, run: sendMessage},
	{name: "watch", args: "feed | chat <chatId>", help: "follow live updates until interrupted", action: "Watch Failed", signedIn: true, run: watch},
}

func findCommand(name string) (command, bool) {
	return lo.Find(commands, func(c command) bool { return c.name == name })
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: taskmarket <command> [arguments]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-14s %-45s %s\n", c.name, c.args, c.help)
	}
}

func (a *app) execute(ctx context.Context, cmd command, args []string) error {
	var session auth.Session
	if cmd.signedIn {
		restored, err := a.auth.Restore()
		if err != nil {
			return err
		}
		session = restored
	}
	return cmd.run(ctx, a, session, args)
}

// needArgs checks the positional arguments left after the flags.
func needArgs(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < n {
		return nil, fmt.Errorf("%w: %s expects %d argument(s)", errors.ErrMissingFields, fs.Name(), n)
	}
	return fs.Args(), nil
}

func signUp(ctx context.Context, a *app, _ auth.Session, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	var cmd domain.SignUpCommand
	fs.StringVar(&cmd.FirstName, "first", "", "first name")
	fs.StringVar(&cmd.LastName, "last", "", "last name")
	fs.StringVar(&cmd.Phone, "phone", "", "phone number")
	fs.StringVar(&cmd.Address, "address", "", "postal address")
	fs.StringVar(&cmd.Email, "email", "", "email address")
	fs.StringVar(&cmd.Password, "password", "", "password, 6 characters at least")
	fs.StringVar(&cmd.ConfirmPassword, "confirm", "", "password again")
	if _, err := needArgs(fs, args, 0); err != nil {
		return err
	}
	session, err := a.auth.SignUp(ctx, cmd)
	if err != nil {
		return err
	}
	a.out.success("Welcome %s, your user id is %s", cmd.FirstName, session.UserID)
	return nil
}

func signIn(ctx context.Context, a *app, _ auth.Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if _, err := needArgs(fs, args, 0); err != nil {
		return err
	}
	session, err := a.auth.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	a.out.success("Signed in as %s (%s)", session.Email, session.UserID)
	return nil
}

func signOut(_ context.Context, a *app, _ auth.Session, _ []string) error {
	if err := a.auth.SignOut(); err != nil {
		return err
	}
	a.out.success("Signed out")
	return nil
}

func whoAmI(ctx context.Context, a *app, session auth.Session, _ []string) error {
	profile, err := a.profiles.GetProfile(ctx, session.UserID)
	if err != nil {
		return err
	}
	stats, err := a.posts.Stats(ctx, session.UserID)
	if err != nil {
		return err
	}
	a.out.profile(profile, stats)
	return nil
}

func editProfile(ctx context.Context, a *app, session auth.Session, args []string) error {
	profile, err := a.profiles.GetProfile(ctx, session.UserID)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.StringVar(&profile.FirstName, "first", profile.FirstName, "first name")
	fs.StringVar(&profile.LastName, "last", profile.LastName, "last name")
	fs.StringVar(&profile.Phone, "phone", profile.Phone, "phone number")
	fs.StringVar(&profile.Address, "address", profile.Address, "postal address")
	if _, err := needArgs(fs, args, 0); err != nil {
		return err
	}
	if err := a.profiles.UpdateProfile(ctx, session.UserID, profile); err != nil {
		return err
	}
	a.out.success("Profile saved")
	return nil
}

func uploadPhoto(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("photo", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(rest[0])
	if err != nil {
		return err
	}
	url, err := a.profiles.UploadPhoto(ctx, session.UserID, data)
	if err != nil {
		return err
	}
	a.out.success("Profile picture stored at %s", url)
	return nil
}

func createPost(ctx context.Context, a *app, session auth.Session, args []string) error {
	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	category := fs.String("category", "", "Home, Ride, Mechanical, Technical or IT")
	rest, err := needArgs(fs, args, 1)
	if err != nil {
		return err
	}
	post, err := a.posts.CreatePost(ctx, domain.CreatePostCommand{
		CreatorID:   session.UserID,
		Category:    *category,
		Description: strings.Join(rest, " "),
	})
	if err != nil {
		return err
	}
	a.out.success("Post %s published", post.ID)
	return nil
}

// firstSnapshot waits for the initial delivery of a subscription, then stops it.
func firstSnapshot[T any](ctx context.Context, subscribe func(onUpdate func(T)) (contract.Unsubscribe, error)) (T, error) {
	first := make(chan T, 1)
	unsubscribe, err := subscribe(func(v T) {
		select {
		case first <- v:
		default:
		}
	})
	if err != nil {
		var zero T
		return zero, err
	}
	defer unsubscribe()
	select {
	case v := <-first:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, errors.Transient(ctx.Err())
	}
}

func feed(ctx context.Context, a *app, _ auth.Session, _ []string) error {
	posts, err := firstSnapshot(ctx, func(onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
		return a.posts.SubscribeFeed(ctx, onUpdate)
	})
	if err != nil {
		return err
	}
	a.out.posts(posts)
	return nil
}

func myPosts(ctx context.Context, a *app, session auth.Session, _ []string) error {
	posts, err := firstSnapshot(ctx, func(onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
		return a.posts.SubscribeMyPosts(ctx, session.UserID, onUpdate)
	})
	if err != nil {
		return err
	}
	a.out.posts(posts)
	return nil
}

func participating(ctx context.Context, a *app, session auth.Session, _ []string) error {
	posts, err := firstSnapshot(ctx, func(onUpdate func([]domain.Post)) (contract.Unsubscribe, error) {
		return a.posts.SubscribeParticipating(ctx, session.UserID, onUpdate)
	})
	if err != nil {
		return err
	}
	a.out.posts(posts)
	return nil
}

func showPost(ctx context.Context, a *app, _ auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("show", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	post, err := a.posts.GetPost(ctx, rest[0])
	if err != nil {
		return err
	}
	a.out.post(post)
	return nil
}

func searchPosts(ctx context.Context, a *app, _ auth.Session, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	category := fs.String("category", "", "restrict to one category")
	limit := fs.Int("limit", 20, "maximum number of results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	posts, err := a.posts.SearchPosts(ctx, strings.Join(fs.Args(), " "), *category, *limit)
	if err != nil {
		return err
	}
	a.out.posts(posts)
	return nil
}

func expressInterest(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("interest", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	if err := a.posts.ExpressInterest(ctx, session.UserID, rest[0]); err != nil {
		return err
	}
	a.out.success("Task accepted, waiting for confirmation from the post owner")
	return nil
}

func confirmUser(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("confirm", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}
	if err := a.posts.ConfirmUser(ctx, session.UserID, rest[0], rest[1]); err != nil {
		return err
	}
	a.out.success("User %s confirmed, the chat is open", rest[1])
	return nil
}

func setStatus(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("status", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}
	status, err := domain.ParseStatus(rest[1])
	if err != nil {
		return err
	}
	if err := a.posts.SetStatus(ctx, session.UserID, rest[0], status); err != nil {
		return err
	}
	a.out.success("Post %s is now %s", rest[0], status)
	return nil
}

func deletePost(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("delete", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	if err := a.posts.DeletePost(ctx, session.UserID, rest[0]); err != nil {
		return err
	}
	a.out.success("Post %s deleted", rest[0])
	return nil
}

func openChat(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("chat", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}
	id, err := a.chats.EnsureChannel(ctx, rest[0], session.UserID, rest[1])
	if err != nil {
		return err
	}
	a.out.success("Chat %s", id)
	return nil
}

func inbox(ctx context.Context, a *app, session auth.Session, _ []string) error {
	channels, err := a.chats.ListChannels(ctx, session.UserID)
	if err != nil {
		return err
	}
	a.out.channels(channels, session.UserID)
	return nil
}

func messages(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("messages", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	list, err := a.chats.Messages(ctx, domain.ChannelID(rest[0]))
	if err != nil {
		return err
	}
	a.out.messages(list, session.UserID)
	return nil
}

func sendMessage(ctx context.Context, a *app, session auth.Session, args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	token := fs.String("token", "", "idempotency token, reuse it when retrying")
	rest, err := needArgs(fs, args, 2)
	if err != nil {
		return err
	}
	message, err := a.chats.SendMessage(ctx, domain.SendMessageCommand{
		ChannelID:   domain.ChannelID(rest[0]),
		SenderID:    session.UserID,
		Text:        strings.Join(rest[1:], " "),
		ClientToken: *token,
	})
	if err != nil {
		return err
	}
	a.out.success("Sent %s", message.ID)
	return nil
}

func watch(ctx context.Context, a *app, session auth.Session, args []string) error {
	rest, err := needArgs(flag.NewFlagSet("watch", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	var unsubscribe contract.Unsubscribe
	switch rest[0] {
	case "feed":
		unsubscribe, err = a.posts.SubscribeFeed(ctx, a.out.posts)
	case "chat":
		if len(rest) < 2 {
			return fmt.Errorf("%w: watch chat expects a chat id", errors.ErrMissingFields)
		}
		unsubscribe, err = a.chats.Subscribe(ctx, domain.ChannelID(rest[1]), func(list []domain.Message) {
			a.out.messages(list, session.UserID)
		})
	default:
		return fmt.Errorf("%w: watch feed or watch chat", errors.ErrMissingFields)
	}
	if err != nil {
		return err
	}
	defer unsubscribe()
	<-ctx.Done()
	return nil
}
