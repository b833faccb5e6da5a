// Command inspect prints the content of a chat-courier badger directory.
//
//	inspect -db ./data -prefix sched:      pending scheduled messages
//	inspect -db ./data -summary            key count per record family
package main

import (
	"chat-courier/internal"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// families lists the key prefixes written by the repositories.
var families = []string{"msg:", "conv:", "gmsg:", "sched:", "unread:", "grp:", "user:", "profile:"}

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	limit := flag.Int("limit", 0, "Stop after this many rows, 0 for no limit")
	summary := flag.Bool("summary", false, "Only count keys per record family")
	flag.Parse()

	db, err := openReadOnly(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if *summary {
		err = printSummary(db)
	} else {
		err = printRows(db, *prefix, *limit)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func printRows(db *badger.DB, prefix string, limit int) error {
	table := newTable("Key", "Type", "Timestamp", "Entity ID", "Status", "Detail")
	rows := 0
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p) && (limit <= 0 || rows < limit); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			row := internal.DefaultMapper(string(item.Key()), val)
			table.Append([]string{row.Key, row.Type, row.Timestamp, row.EntityID, statusColour(row.Status), row.Detail})
			rows++
		}
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()
	fmt.Printf("\n%d rows under %q\n", rows, prefix)
	return nil
}

func printSummary(db *badger.DB) error {
	table := newTable("Family", "Keys")
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		for _, family := range families {
			it := txn.NewIterator(opts)
			count := 0
			for it.Seek([]byte(family)); it.ValidForPrefix([]byte(family)); it.Next() {
				count++
			}
			it.Close()
			table.Append([]string{family, fmt.Sprint(count)})
		}
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("\t")
	return table
}

func statusColour(status string) string {
	switch status {
	case "scheduled":
		return color.Yellow.Render(status)
	case "read":
		return color.Green.Render(status)
	default:
		return status
	}
}

// openReadOnly opens db without taking the directory lock. A value log left
// by a crashed writer must be truncated by a writable open first.
func openReadOnly(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithReadOnly(true).WithLogger(nil).WithBypassLockGuard(true)
	db, err := badger.Open(opts)
	if err == nil || !strings.Contains(err.Error(), "Log truncate required") {
		return db, err
	}
	writable, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil).WithBypassLockGuard(true))
	if err != nil {
		return nil, fmt.Errorf("repair failed: %w", err)
	}
	if err := writable.Close(); err != nil {
		return nil, err
	}
	return badger.Open(opts)
}
