package download

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bxcodec/faker/v4"
	"github.com/orayew2002/pic2excel/domain"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func exportRow(remark, nickname, url string) []string {
	return []string{"wxid", "alias", "1", remark, nickname, "", "", url}
}

func buildExport(t *testing.T, rows ...[]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"UserName", "Alias", "Type", "Remark", "NickName", "Province", "City", "HeadImgUrl"}
	if err := w.Write(header); err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()
	return &buf
}

func TestReadContacts(t *testing.T) {
	remark := faker.FirstName()
	nickname := faker.LastName()

	buf := buildExport(t,
		exportRow(remark, "ignored", "http://a/1"),
		exportRow("", nickname, "http://a/2"),
		exportRow("", "", "http://a/3"),
		exportRow("no url", "", ""),
		[]string{"short", "row"},
		exportRow("../../etc/passwd", "", "http://a/4"),
	)

	got, err := ReadContacts(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := []domain.Contact{
		{Name: remark, AvatarURL: "http://a/1"},
		{Name: nickname, AvatarURL: "http://a/2"},
		{Name: "passwd", AvatarURL: "http://a/4"},
	}
	if len(got) != len(want) {
		t.Fatalf("contacts = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("contact %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadContactsHeaderOnly(t *testing.T) {
	got, err := ReadContacts(buildExport(t))
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestReadContactsFileMissing(t *testing.T) {
	_, err := ReadContactsFile(filepath.Join(t.TempDir(), "none.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

func avatarServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ok/") {
			fmt.Fprintf(w, "avatar:%s", strings.TrimPrefix(r.URL.Path, "/ok/"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := avatarServer(t)
	d := &Downloader{Client: srv.Client(), Dir: t.TempDir(), Logger: quiet}

	path, err := d.Fetch(context.Background(), domain.Contact{Name: "alice", AvatarURL: srv.URL + "/ok/alice"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path != filepath.Join(d.Dir, "alice.jpg") {
		t.Fatalf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "avatar:alice" {
		t.Fatalf("content = %q, %v", data, err)
	}

	_, err = d.Fetch(context.Background(), domain.Contact{Name: "bob", AvatarURL: srv.URL + "/missing"})
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("err = %v, want ErrStatus", err)
	}
	if _, statErr := os.Stat(filepath.Join(d.Dir, "bob.jpg")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("failed download wrote a file: %v", statErr)
	}
}

func TestFetchAllContinuesPastFailures(t *testing.T) {
	srv := avatarServer(t)
	d := &Downloader{Client: srv.Client(), Dir: t.TempDir(), Logger: quiet}

	var contacts []domain.Contact
	for i := range 4 {
		name := fmt.Sprintf("%s%d", faker.FirstName(), i)
		url := srv.URL + "/ok/" + name
		if i%2 == 1 {
			url = srv.URL + "/gone/" + name
		}
		contacts = append(contacts, domain.Contact{Name: name, AvatarURL: url})
	}
	contacts = append(contacts, domain.Contact{Name: "bad", AvatarURL: "http://\x7f"})

	calls := 0
	res := d.FetchAll(context.Background(), contacts, func() { calls++ })

	if len(res.Saved) != 2 || res.Failed != 3 {
		t.Fatalf("result = %+v, want 2 saved 3 failed", res)
	}
	if calls != len(contacts) {
		t.Fatalf("progress calls = %d, want %d", calls, len(contacts))
	}
	for _, p := range res.Saved {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("saved file %s: %v", p, err)
		}
	}
}

func TestFetchAllCancelled(t *testing.T) {
	srv := avatarServer(t)
	d := &Downloader{Client: srv.Client(), Dir: t.TempDir(), Logger: quiet}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := d.FetchAll(ctx, []domain.Contact{{Name: "a", AvatarURL: srv.URL + "/ok/a"}}, nil)
	if res.Failed != 1 || len(res.Saved) != 0 {
		t.Fatalf("result = %+v", res)
	}
}
