// Package download fetches contact avatars listed in a CSV export.
package download

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/orayew2002/pic2excel/domain"
)

// ErrStatus is wrapped when the server answers with anything but 200.
var ErrStatus = errors.New("unexpected status")

// Column positions in the contact export.
const (
	colRemark   = 3
	colNickname = 4
	colAvatar   = 7
)

// ReadContacts parses a contact export. The header row is skipped. The name
// is the remark column, or the nickname when the remark is empty.
func ReadContacts(r io.Reader) ([]domain.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var contacts []domain.Contact
	for line := 0; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if line == 0 || len(row) <= colAvatar {
			continue
		}

		name := row[colRemark]
		if name == "" {
			name = row[colNickname]
		}
		name = sanitizeName(name)
		url := strings.TrimSpace(row[colAvatar])
		if name == "" || url == "" {
			continue
		}

		contacts = append(contacts, domain.Contact{Name: name, AvatarURL: url})
	}

	return contacts, nil
}

// ReadContactsFile opens path and parses it with ReadContacts.
func ReadContactsFile(path string) ([]domain.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadContacts(f)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// Downloader saves avatars into Dir as <name>.jpg.
type Downloader struct {
	Client *http.Client
	Dir    string
	Logger *slog.Logger
}

// Result summarises a FetchAll run.
type Result struct {
	Saved  []string
	Failed int
}

// Fetch downloads one avatar and returns the path it was written to.
func (d *Downloader) Fetch(ctx context.Context, c domain.Contact) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AvatarURL, nil)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", c.AvatarURL, err)
	}

	resp, err := d.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", c.AvatarURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %s: %w %d", c.AvatarURL, ErrStatus, resp.StatusCode)
	}

	path := filepath.Join(d.Dir, c.Name+".jpg")
	if err := writeFile(path, resp.Body); err != nil {
		return "", err
	}

	return path, nil
}

// FetchAll downloads every contact in order. A failed contact is logged and
// counted; it never stops the loop. progress, if set, is called after each contact.
func (d *Downloader) FetchAll(ctx context.Context, contacts []domain.Contact, progress func()) Result {
	var res Result
	log := d.logger()

	for i, c := range contacts {
		if ctx.Err() != nil {
			res.Failed += len(contacts) - i
			log.Warn("download cancelled", "remaining", len(contacts)-i, "err", ctx.Err())
			break
		}

		path, err := d.Fetch(ctx, c)
		if err != nil {
			res.Failed++
			log.Error("download failed", "index", i+1, "name", c.Name, "err", err)
		} else {
			res.Saved = append(res.Saved, path)
			log.Info("download ok", "index", i+1, "path", path)
		}

		if progress != nil {
			progress()
		}
	}

	return res
}

func (d *Downloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

func (d *Downloader) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// writeFile streams body into path, removing the file if the copy fails.
func writeFile(path string, body io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
