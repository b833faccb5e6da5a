package internal

import (
	"chat-courier/domain"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const inspectPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>chat-courier inspector</title>
<style>
body { font-family: monospace; margin: 1.5em; }
table { border-collapse: collapse; }
td, th { padding: 2px 10px; text-align: left; border-bottom: 1px solid #ddd; }
.stats span { margin-right: 2em; }
</style></head>
<body>
<form method="get"><input name="prefix" value="{{.Prefix}}"> <button>scan</button></form>
<p class="stats">{{range $k, $v := .Stats}}<span>{{$k}}: {{$v}}</span>{{end}}</p>
<table>
<tr><th>Key</th><th>Type</th><th>Timestamp</th><th>Entity</th><th>Status</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Type}}</td><td>{{.Timestamp}}</td><td>{{.EntityID}}</td><td>{{.Status}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body>
</html>`

var inspectTemplate = template.Must(template.New("inspect").Parse(inspectPage))

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Status    string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves a read-only view of the store on /inspect and,
// when filesDir is set, the uploaded files on /files/.
// The returned server is already listening; the caller shuts it down.
func StartDebugServer(log *slog.Logger, db *badger.DB, port int, filesDir string,
	mapper RowMapper, statsProvider StatsProvider) *http.Server {
	if mapper == nil {
		mapper = DefaultMapper
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "msg:"
		}
		data := PageData{Prefix: prefix, Stats: make(map[string]any)}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		err := db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				if err := item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = inspectTemplate.Execute(w, data)
	})
	if filesDir != "" {
		mux.Handle("/files/", http.StripPrefix("/files/", noSniff(http.FileServer(http.Dir(filesDir)))))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Starting debug server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Debug server stopped", "error", err)
		}
	}()
	return server
}

// DefaultMapper decodes message records and falls back to the raw size for anything else.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Status:    "-",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	prefix, _, _ := strings.Cut(key, ":")
	switch prefix {
	case "msg":
		var message domain.Message
		if err := json.Unmarshal(val, &message); err != nil {
			return row
		}
		row.Type = strings.ToUpper(string(message.Type))
		row.Timestamp = message.Timestamp.Format(time.DateTime)
		row.EntityID = shortID(message.ID.String())
		row.Status = string(message.Status)
		row.Detail = fmt.Sprintf("%s -> %s", message.Sender, destination(message))
		if message.ScheduledAt != nil {
			row.Detail += " at " + message.ScheduledAt.Format(time.DateTime)
		}
	case "conv", "gmsg", "sched", "unread":
		row.Type = "INDEX"
		parts := strings.Split(key, ":")
		if len(parts) >= 3 {
			if tsNano, err := strconv.ParseInt(parts[len(parts)-2], 10, 64); err == nil {
				row.Timestamp = time.Unix(0, tsNano).UTC().Format(time.DateTime)
			}
		}
		row.EntityID = shortID(string(val))
	case "grp":
		var group domain.Group
		if err := json.Unmarshal(val, &group); err != nil {
			return row
		}
		row.Type = "GROUP"
		row.Timestamp = group.UpdatedAt.Format(time.DateTime)
		row.EntityID = shortID(group.ID.String())
		row.Detail = fmt.Sprintf("%s, %d members, %d messages", group.Name, len(group.Members), len(group.MessageIDs))
	case "user", "profile":
		row.Type = "USER"
	}
	return row
}

func destination(message domain.Message) string {
	if message.GroupID != nil {
		return "group " + shortID(message.GroupID.String())
	}
	return message.Recipient
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// noSniff stops browsers from guessing a type other than the one derived from the stored extension.
func noSniff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
