// Package backup packs the four stored collections into a zip archive and
// restores them from one. Restore is all-or-nothing: every member is read
// and parsed before anything in the store is touched.
package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/invoice"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
	"github.com/MrJamesThe3rd/fintrack/internal/metrics"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
)

// maxMemberSize caps how much a single archive member may inflate to.
const maxMemberSize = 64 << 20

type Service struct {
	store *kv.Store
	now   func() time.Time
}

func NewService(store *kv.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Archive is a finished backup file.
type Archive struct {
	Name string
	Data []byte
}

// Counts is how many records each list collection holds.
type Counts struct {
	Entries  int `json:"entries"`
	Invoices int `json:"invoices"`
	Clients  int `json:"clients"`
}

func memberName(k kv.Key) string {
	return string(k) + ".json"
}

// FileName is the archive name for a backup taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("fintrack_backup_%s.zip", t.Format(time.DateOnly))
}

// Export reads every collection verbatim and zips them.
func (s *Service) Export(ctx context.Context) (archive *Archive, err error) {
	defer func() {
		metrics.BackupOperations.WithLabelValues("export", metrics.Outcome(err)).Inc()
	}()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for _, k := range kv.Keys() {
		data, err := s.rawOrDefault(ctx, k)
		if err != nil {
			return nil, err
		}

		w, err := zw.Create(memberName(k))
		if err != nil {
			return nil, fmt.Errorf("%w: adding %s: %w", fault.ErrEncoding, memberName(k), err)
		}

		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %w", fault.ErrEncoding, memberName(k), err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finishing archive: %w", fault.ErrEncoding, err)
	}

	archive = &Archive{Name: FileName(s.now()), Data: buf.Bytes()}

	slog.Info("backup exported", "name", archive.Name, "bytes", len(archive.Data))

	return archive, nil
}

// rawOrDefault returns the stored text, or what an empty store means for
// that key: an empty list, or the default settings record.
func (s *Service) rawOrDefault(ctx context.Context, k kv.Key) ([]byte, error) {
	data, err := s.store.Raw(ctx, k)
	if err == nil {
		return data, nil
	}

	if !errors.Is(err, fault.ErrNotFound) {
		return nil, fmt.Errorf("reading %s: %w", k, err)
	}

	if k == kv.KeySettings {
		def, err := json.Marshal(settings.Default())
		if err != nil {
			return nil, fmt.Errorf("%w: encoding default settings: %w", fault.ErrEncoding, err)
		}

		return def, nil
	}

	return []byte("[]"), nil
}

// Import replaces all four collections with the archive's members. Nothing
// is written unless every member is present and parses.
func (s *Service) Import(ctx context.Context, data []byte) (outcome *Counts, err error) {
	defer func() {
		metrics.BackupOperations.WithLabelValues("import", metrics.Outcome(err)).Inc()
	}()

	members, err := readMembers(data)
	if err != nil {
		return nil, err
	}

	counts, err := parseMembers(members)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceAll(ctx, members); err != nil {
		return nil, fmt.Errorf("restoring backup: %w", err)
	}

	slog.Info("backup restored",
		"entries", counts.Entries, "invoices", counts.Invoices, "clients", counts.Clients)

	return counts, nil
}

func readMembers(data []byte) (map[kv.Key][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening archive: %w", fault.ErrEncoding, err)
	}

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	members := make(map[kv.Key][]byte, len(kv.Keys()))

	for _, k := range kv.Keys() {
		f, ok := byName[memberName(k)]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", fault.ErrFormat, memberName(k))
		}

		content, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", fault.ErrEncoding, f.Name, err)
		}

		members[k] = content
	}

	return members, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxMemberSize+1))
	if err != nil {
		return nil, err
	}

	if len(content) > maxMemberSize {
		return nil, fmt.Errorf("member larger than %d bytes", maxMemberSize)
	}

	return content, nil
}

// parseMembers decodes every member into its stored type so nothing the
// services cannot read back gets committed. A JSON null is refused for all
// four members.
func parseMembers(members map[kv.Key][]byte) (*Counts, error) {
	entries, err := decodeMember[[]ledger.Entry](members, kv.KeyEntries)
	if err != nil {
		return nil, err
	}

	invoices, err := decodeMember[[]invoice.Invoice](members, kv.KeyInvoices)
	if err != nil {
		return nil, err
	}

	clients, err := decodeMember[[]string](members, kv.KeyClients)
	if err != nil {
		return nil, err
	}

	if _, err := decodeMember[settings.Settings](members, kv.KeySettings); err != nil {
		return nil, err
	}

	return &Counts{
		Entries:  len(entries),
		Invoices: len(invoices),
		Clients:  len(clients),
	}, nil
}

func decodeMember[T any](members map[kv.Key][]byte, k kv.Key) (T, error) {
	var v T

	raw := bytes.TrimSpace(members[k])
	if bytes.Equal(raw, []byte("null")) {
		return v, fmt.Errorf("%w: %s: is null", fault.ErrFormat, memberName(k))
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %w", fault.ErrFormat, memberName(k), err)
	}

	return v, nil
}

// Preview counts what the store currently holds.
func (s *Service) Preview(ctx context.Context) (Counts, error) {
	var c Counts

	for _, k := range []kv.Key{kv.KeyEntries, kv.KeyInvoices, kv.KeyClients} {
		items, err := kv.Read[json.RawMessage](ctx, s.store, k)
		if err != nil {
			return Counts{}, fmt.Errorf("reading %s: %w", k, err)
		}

		switch k {
		case kv.KeyEntries:
			c.Entries = len(items)
		case kv.KeyInvoices:
			c.Invoices = len(items)
		case kv.KeyClients:
			c.Clients = len(items)
		}
	}

	return c, nil
}
