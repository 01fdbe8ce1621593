package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	embedstr "github.com/ahrav/go-embedstr"
	"golang.org/x/exp/mmap"
)

func main() {
	fmt.Println("=== Embedded String Example ===")
	fmt.Println()

	demonstrateModes()
	fmt.Println()

	// Create a temporary file holding a small length-prefixed string table.
	tempDir, err := os.MkdirTemp("", "embedstr-example-")
	if err != nil {
		log.Fatal("Failed to create temp dir:", err)
	}
	defer os.RemoveAll(tempDir)

	names := []string{
		"main",
		"init",
		"github.com/ahrav/go-embedstr.New",
		"runtime.gcBgMarkWorker",
		"x",
	}
	tablePath := filepath.Join(tempDir, "names.tbl")
	if err := writeTable(tablePath, names); err != nil {
		log.Fatal("Failed to write table:", err)
	}
	fmt.Printf("Created string table: %s\n", tablePath)
	fmt.Println()

	demonstrateMappedTable(tablePath)
	fmt.Println()

	demonstrateSymbolTable(names)
}

// demonstrateModes shows which inputs stay inline and which are boxed.
func demonstrateModes() {
	fmt.Println("--- Inline vs Boxed ---")
	fmt.Printf("Str size: %d bytes, inline capacity: %d bytes\n",
		unsafe.Sizeof(embedstr.Str{}), embedstr.MaxInline)

	inputs := []string{
		"",
		"a",
		strings.Repeat("1234567890", 2)[:embedstr.MaxInline],
		strings.Repeat("1234567890", 2)[:embedstr.MaxInline+1],
		"something longer than 15 byets",
	}

	for _, in := range inputs {
		s := embedstr.New(in)
		fmt.Printf("  len=%-3d mode=%-8s %#v\n", s.Len(), s.Mode(), s)
		_ = s.Close()
	}
}

// writeTable stores each name as a one-byte length followed by its bytes.
func writeTable(path string, names []string) error {
	var b strings.Builder
	for _, name := range names {
		if len(name) > 255 {
			return fmt.Errorf("name %q too long for table", name)
		}
		b.WriteByte(byte(len(name)))
		b.WriteString(name)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// readTable reads every entry of a length-prefixed string table straight out
// of the mapped file.
func readTable(r *mmap.ReaderAt) ([]embedstr.Str, error) {
	var out []embedstr.Str
	for off := 0; off < r.Len(); {
		n := int(r.At(off))
		s, err := embedstr.ReadAt(r, int64(off+1), n)
		if err != nil {
			for i := range out {
				_ = out[i].Close()
			}
			return nil, fmt.Errorf("entry at offset %d: %w", off, err)
		}
		out = append(out, s)
		off += 1 + n
	}
	return out, nil
}

// demonstrateMappedTable memory-maps the table and lifts each entry into a Str.
func demonstrateMappedTable(path string) {
	fmt.Println("--- Reading a Mapped Table ---")

	r, err := mmap.Open(path)
	if err != nil {
		log.Fatal("Failed to map table:", err)
	}
	defer r.Close()

	entries, err := readTable(r)
	if err != nil {
		log.Fatal("Failed to read table:", err)
	}
	defer func() {
		for i := range entries {
			_ = entries[i].Close()
		}
	}()

	for i := range entries {
		e := &entries[i]
		fmt.Printf("  [%d] %-8s %q fingerprint=%016x\n", i, e.Mode(), e.String(), e.Fingerprint())
	}
}

// demonstrateSymbolTable interns names and resolves them by fingerprint.
func demonstrateSymbolTable(names []string) {
	fmt.Println("--- Symbol Table ---")

	evictions := 0
	tbl, err := embedstr.NewSymbolTable(
		embedstr.WithCapacity(3),
		embedstr.WithEvictHook(func(uint64) { evictions++ }),
	)
	if err != nil {
		log.Fatal("Failed to create symbol table:", err)
	}
	defer tbl.Close()

	ids := make([]uint64, 0, len(names))
	for _, name := range names {
		id, err := tbl.Intern(name)
		if err != nil {
			log.Fatal("Failed to intern:", err)
		}
		ids = append(ids, id)
	}

	for i, id := range ids {
		if text, ok := tbl.Resolve(id); ok {
			fmt.Printf("  %016x -> %s\n", id, text)
		} else {
			fmt.Printf("  %016x -> (evicted, was %q)\n", id, names[i])
		}
	}
	fmt.Printf("Resident: %d, evicted: %d\n", tbl.Len(), evictions)
}
