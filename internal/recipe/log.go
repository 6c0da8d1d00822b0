package recipe

import (
	"fmt"
	"os"
)

// Log is the append-only record of scraped recipes, one
// "<title>:\n<url>\n\n" entry per recipe. It is never read back.
type Log struct {
	Path string
}

func (l Log) Append(r Recipe) error {
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open recipe log: %w", err)
	}
	_, err = fmt.Fprintf(f, "%s:\n%s\n\n", r.Title, r.Url)
	if err != nil {
		f.Close()
		return fmt.Errorf("write recipe log: %w", err)
	}
	return f.Close()
}
