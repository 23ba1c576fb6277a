// Command inspect prints the documents stored in a Badger database, or serves
// them as an HTML page. The database is opened read-only so it can run next to
// a live taskmarket process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"taskmarket/internal"
	"taskmarket/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const maxDetail = 80

func main() {
	_ = godotenv.Load()
	defaultPath := os.Getenv("BADGER_FILEPATH")
	if defaultPath == "" {
		defaultPath = "./data/badger"
	}
	dbPath := flag.String("db", defaultPath, "Path to badger DB")
	prefix := flag.String("prefix", storage.DocumentKeyPrefix, "Prefix to scan, e.g. doc:posts:")
	port := flag.Int("serve", 0, "Serve the HTML view on this port instead of printing")
	flag.Parse()

	// BypassLockGuard allows opening while the CLI holds the lock
	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if *port > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		internal.StartDebugServer(ctx, db, *port, "/inspect", *prefix, DocumentMapper, logs.GetLoggerFromString("INFO"))
		fmt.Printf("Viewer started at http://localhost:%d/inspect\n", *port)
		<-ctx.Done()
		return
	}

	rows, err := internal.Scan(db, *prefix, DocumentMapper)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Collection", "ID", "Version", "Updated", "Detail"})
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
	for _, row := range rows {
		table.Append([]string{row.Collection, row.ID, row.Version, row.Updated, row.Detail})
	}
	table.Render()
}

// DocumentMapper decodes a stored document into an inspector row. Keys that
// are not documents fall back to the raw view.
func DocumentMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	snapshot, err := storage.DecodeEntry(key, val)
	if err != nil {
		return row
	}
	row.Collection = snapshot.Collection
	row.ID = snapshot.ID
	row.Version = strconv.FormatInt(snapshot.Version, 10)
	if !snapshot.UpdateTime.IsZero() {
		row.Updated = snapshot.UpdateTime.Format("2006-01-02 15:04:05")
	}

	names := lo.Keys(snapshot.Fields)
	slices.Sort(names)
	detail := strings.Join(lo.Map(names, func(name string, _ int) string {
		return fmt.Sprintf("%s=%v", name, snapshot.Fields[name])
	}), " ")
	if len(detail) > maxDetail {
		detail = detail[:maxDetail] + "..."
	}
	row.Detail = detail
	return row
}
