package internal

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const inspectPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>taskmarket inspector</title>
<style>body{font-family:monospace}td,th{padding:2px 8px;text-align:left}tr:nth-child(even){background:#f3f3f3}</style>
</head>
<body>
<form method="get"><input name="prefix" value="{{.Prefix}}" size="60"><button>Scan</button></form>
<p>{{len .Items}} entries</p>
<table>
<tr><th>Collection</th><th>ID</th><th>Version</th><th>Updated</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Collection}}</td><td>{{.ID}}</td><td>{{.Version}}</td><td>{{.Updated}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body>
</html>`

var inspectTemplate = template.Must(template.New("inspect").Parse(inspectPage))

type InspectRow struct {
	Key        string
	Collection string
	ID         string
	Version    string
	Updated    string
	Detail     string
}

type RowMapper func(key string, val []byte) InspectRow

type PageData struct {
	Prefix string
	Items  []InspectRow
}

// Scan reads every entry under prefix through the mapper.
func Scan(db *badger.DB, prefix string, mapper RowMapper) ([]InspectRow, error) {
	if mapper == nil {
		mapper = DefaultMapper
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(string(item.Key()), val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// StartDebugServer serves a read-only HTML view of the database until ctx is done.
func StartDebugServer(ctx context.Context, db *badger.DB, port int, endpoint, defaultPrefix string, mapper RowMapper, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultPrefix
		}
		rows, err := Scan(db, prefix, mapper)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = inspectTemplate.Execute(w, PageData{Prefix: prefix, Items: rows})
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Debug server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	return server
}

func DefaultMapper(key string, val []byte) InspectRow {
	return InspectRow{
		Key:        key,
		Collection: "-",
		ID:         key,
		Version:    "-",
		Updated:    "--:--:--",
		Detail:     "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
}
