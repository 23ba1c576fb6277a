package main

import (
	"fmt"
	"io"
	"strings"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"
	"taskmarket/projection"
	"taskmarket/services"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// printer renders command results on the terminal.
type printer struct {
	out     io.Writer
	colours bool
	now     contract.Clock
}

func newPrinter(out io.Writer, colours bool, now contract.Clock) printer {
	return printer{out: out, colours: colours, now: now}
}

func (p printer) paint(style color.Style, text string) string {
	if !p.colours {
		return text
	}
	return style.Render(text)
}

func (p printer) success(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(color.New(color.FgGreen), fmt.Sprintf(format, args...)))
}

// failure prints the notification a user sees for err.
func (p printer) failure(err error, action string) {
	n := errors.Notify(err, action)
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(color.New(color.FgRed, color.OpBold), n.Title), n.Message)
}

func (p printer) table(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func (p printer) posts(posts []domain.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(p.out, "No posts yet")
		return
	}
	table := p.table([]string{"ID", "Category", "Status", "Posted", "Accepted", "Description"})
	now := p.now()
	for _, post := range posts {
		table.Append([]string{
			post.ID,
			string(post.Category),
			p.status(post.Status),
			domain.FormatTimeAgo(post.CreatedAt, now),
			fmt.Sprintf("%d/%d", len(post.ConfirmedUserIDs), len(post.InterestedUsers)),
			post.Description,
		})
	}
	table.Render()
}

func (p printer) post(post domain.Post) {
	fmt.Fprintf(p.out, "%s  %s  %s  %s\n", post.ID, post.Category, p.status(post.Status), domain.FormatTimeAgo(post.CreatedAt, p.now()))
	fmt.Fprintln(p.out, post.Description)
	fmt.Fprintf(p.out, "creator:    %s\n", post.CreatorID)
	fmt.Fprintf(p.out, "interested: %s\n", strings.Join(post.InterestedUsers, ", "))
	fmt.Fprintf(p.out, "confirmed:  %s\n", strings.Join(post.ConfirmedUserIDs, ", "))
}

func (p printer) status(status domain.PostStatus) string {
	switch status {
	case domain.StatusActive:
		return p.paint(color.New(color.FgGreen), string(status))
	case domain.StatusCompleted:
		return p.paint(color.New(color.FgYellow), string(status))
	default:
		return p.paint(color.New(color.FgGray), string(status))
	}
}

func (p printer) messages(messages []domain.Message, currentUser string) {
	now := p.now()
	for _, m := range messages {
		sender := m.SenderID
		if sender == currentUser {
			sender = p.paint(color.New(color.FgCyan), "me")
		}
		fmt.Fprintf(p.out, "[%s] %s: %s\n", domain.FormatTimeAgo(m.CreatedAt, now), sender, m.Text)
	}
}

func (p printer) channels(channels []domain.Channel, currentUser string) {
	if len(channels) == 0 {
		fmt.Fprintln(p.out, "No chats yet")
		return
	}
	table := p.table([]string{"Chat", "Post", "With", "Active"})
	now := p.now()
	for _, c := range channels {
		table.Append([]string{c.ID.String(), c.PostID, c.Counterpart(currentUser), domain.FormatTimeAgo(c.UpdatedAt, now)})
	}
	table.Render()
}

func (p printer) profile(profile domain.UserProfile, stats services.PostStats) {
	fmt.Fprintln(p.out, p.paint(color.New(color.OpBold), profile.DisplayName()))
	fmt.Fprintf(p.out, "id:       %s\n", profile.UID)
	fmt.Fprintf(p.out, "email:    %s\n", profile.Email)
	fmt.Fprintf(p.out, "phone:    %s\n", profile.Phone)
	fmt.Fprintf(p.out, "address:  %s\n", profile.Address)
	if profile.PhotoURL != "" {
		fmt.Fprintf(p.out, "photo:    %s\n", profile.PhotoURL)
	}
	fmt.Fprintf(p.out, "posts created: %d, participating: %d\n", stats.Created, stats.Participating)
}

func (p printer) notices(notices []projection.Notice) {
	for _, n := range notices {
		fmt.Fprintf(p.out, "%s %s: %s\n", p.paint(color.New(color.FgCyan), "notice"), n.UserID, n.Text)
	}
}
