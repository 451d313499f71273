// Package catalog loads card definitions from set files and decklists from
// plain text, producing the deck package's Catalog and Decklist.
package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/deck"
)

// ListSeparator splits multi-valued CSV columns such as Arenas and Keywords.
const ListSeparator = ";"

var (
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrUnsupportedFormat is returned for files that are neither CSV nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrDuplicateCard is returned when two set files define the same card ID.
	ErrDuplicateCard = errors.New("duplicate card id")
	// ErrBadDecklist is returned for malformed decklist lines.
	ErrBadDecklist = errors.New("invalid decklist line")
)

var requiredColumns = []string{"Name", "Type"}

// Record is one card row as it appears in a set file.
type Record struct {
	ID        string   `json:"id"`
	Set       string   `json:"set"`
	Number    string   `json:"number"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Cost      int      `json:"cost"`
	Arenas    []string `json:"arenas"`
	Power     int      `json:"power"`
	HP        int      `json:"hp"`
	Keywords  []string `json:"keywords"`
	Aspects   []string `json:"aspects"`
	Subtype   string   `json:"subtype"`
	BackInfo  string   `json:"back_info"`
	TokenInfo string   `json:"token_info"`
}

// CardID is the explicit ID, or SET_NUMBER when the row has none.
func (r Record) CardID() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	return fmt.Sprintf("%s_%s", strings.TrimSpace(r.Set), strings.TrimSpace(r.Number))
}

// Template converts the record into a card template.
func (r Record) Template() (*cards.Template, error) {
	typ, err := cards.ParseType(r.Type)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", r.CardID(), err)
	}
	return &cards.Template{
		ID:        r.CardID(),
		Set:       r.Set,
		Number:    r.Number,
		Name:      strings.TrimSpace(r.Name),
		Type:      typ,
		Subtype:   r.Subtype,
		Cost:      r.Cost,
		Attack:    r.Power,
		Health:    r.HP,
		Aspects:   trimAll(r.Aspects),
		Keywords:  trimAll(r.Keywords),
		Arenas:    cards.NormalizeArenas(r.Arenas),
		BackInfo:  r.BackInfo,
		TokenInfo: r.TokenInfo,
	}, nil
}

// ReadCSV parses a set file with a header row. Column names match case-insensitively.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	fold := cases.Fold()
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[fold.String(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[fold.String(name)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := cols[fold.String(name)]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		rec := Record{
			ID:        get("ID"),
			Set:       get("Set"),
			Number:    get("Number"),
			Name:      get("Name"),
			Type:      get("Type"),
			Arenas:    splitList(get("Arenas")),
			Keywords:  splitList(get("Keywords")),
			Aspects:   splitList(get("Aspects")),
			Subtype:   get("Subtype"),
			BackInfo:  get("BackInfo"),
			TokenInfo: get("TokenInfo"),
		}
		if rec.Cost, err = atoi(get("Cost")); err != nil {
			return nil, fmt.Errorf("line %d: cost: %w", line, err)
		}
		if rec.Power, err = atoi(get("Power")); err != nil {
			return nil, fmt.Errorf("line %d: power: %w", line, err)
		}
		if rec.HP, err = atoi(get("HP")); err != nil {
			return nil, fmt.Errorf("line %d: hp: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadJSON parses a set file holding an array of records.
func ReadJSON(r io.Reader) ([]Record, error) {
	var out []Record
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return out, nil
}

// Build turns records into a catalog keyed by card ID.
func Build(records []Record) (deck.Catalog, error) {
	cat := make(deck.Catalog, len(records))
	for _, rec := range records {
		tpl, err := rec.Template()
		if err != nil {
			return nil, err
		}
		if _, dup := cat[tpl.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, tpl.ID)
		}
		cat[tpl.ID] = tpl
	}
	return cat, nil
}

// LoadFile reads one CSV or JSON set file, chosen by extension.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Loader melds several set files into one catalog.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger is replaced with a no-op logger.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads every path concurrently and merges the results in path order.
// A card ID defined by two files is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (deck.Catalog, error) {
	results := make([][]Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := LoadFile(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			results[i] = recs
			l.logger.Debug("set file loaded", zap.String("path", path), zap.Int("cards", len(recs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Record
	for _, recs := range results {
		all = append(all, recs...)
	}
	cat, err := Build(all)
	if err != nil {
		return nil, err
	}
	l.logger.Info("card catalog loaded", zap.Int("files", len(paths)), zap.Int("cards", len(cat)))
	return cat, nil
}

// ParseDecklist reads "id,count" lines. Blank lines and lines starting with #
// are skipped; repeated IDs are summed.
func ParseDecklist(r io.Reader) (deck.Decklist, error) {
	list := make(deck.Decklist)
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w %d: %q", ErrBadDecklist, n, line)
		}
		id := strings.TrimSpace(parts[0])
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || id == "" || count <= 0 {
			return nil, fmt.Errorf("%w %d: %q", ErrBadDecklist, n, line)
		}
		list[id] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	return list, nil
}

// LoadDeck parses the decklist file at path and builds it against cat.
func LoadDeck(cat deck.Catalog, path string) (*deck.Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list, err := ParseDecklist(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return deck.Build(cat, list)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func trimAll(list []string) []string {
	var out []string
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func atoi(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
