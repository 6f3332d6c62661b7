package crawl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Canonical column names checks test for. A column is "present" when at
// least one record in the source data carried the key, even with a null
// value; an absent column makes the depending check report fully missing.
const (
	ColStatus    = "status"
	ColTitle     = "title"
	ColH1        = "h1"
	ColMetaDesc  = "meta_desc"
	ColCanonical = "canonical"
	ColImgSrc    = "img_src"
	ColImgAlt    = "img_alt"
	ColLinksURL  = "links_url"
	ColSize      = "size"
	ColLatency   = "download_latency"
	ColBodyText  = "page_body_text"
)

// Social and schema checks accept several source column spellings.
var (
	SocialTitleCols = ogTitleAliases
	SocialDescCols  = ogDescAliases
	SocialImageCols = ogImageAliases
)

// Dataset is a loaded crawl: the page records plus the set of columns the
// source data actually contained, so checks can tell "column absent" apart
// from "column present but empty on every row".
type Dataset struct {
	Records []PageRecord
	columns map[string]bool
}

// NewDataset builds a dataset directly from records, inferring column
// presence from the populated fields. Intended for in-process callers and
// tests; data loaded from disk goes through LoadJSONL, which records the
// real source columns.
func NewDataset(records []PageRecord) *Dataset {
	ds := &Dataset{Records: records, columns: make(map[string]bool)}
	mark := func(col string, ok bool) {
		if ok {
			ds.columns[col] = true
		}
	}
	for _, r := range records {
		mark("url", r.URL != "")
		mark(ColStatus, r.Status != nil)
		mark(ColTitle, r.Title != nil)
		mark(ColH1, r.H1 != nil)
		mark(ColMetaDesc, r.MetaDesc != nil)
		mark(ColCanonical, r.Canonical != nil)
		mark(ColImgSrc, r.ImgSrc != nil)
		mark(ColImgAlt, r.ImgAlt != nil)
		mark(ColLinksURL, r.LinksURL != nil)
		mark(ColSize, r.Size != nil)
		mark(ColLatency, r.Latency != nil)
		mark(ColBodyText, r.BodyText != nil)
		mark("og:title", r.OGTitle != nil)
		mark("og:description", r.OGDesc != nil)
		mark("og:image", r.OGImage != nil)
		mark("jsonld", r.JSONLD != nil)
	}
	return ds
}

// Has reports whether the source data contained the column.
func (d *Dataset) Has(col string) bool {
	return d.columns[col]
}

// HasAny reports whether any of the columns is present.
func (d *Dataset) HasAny(cols ...string) bool {
	for _, c := range cols {
		if d.columns[c] {
			return true
		}
	}
	return false
}

// HasPrefix reports whether any present column starts with the prefix.
func (d *Dataset) HasPrefix(prefix string) bool {
	for c := range d.columns {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// Valid returns the records semantic checks should score: the status-200
// subset when a status column exists, otherwise every record.
func (d *Dataset) Valid() []PageRecord {
	if !d.Has(ColStatus) {
		return d.Records
	}
	out := make([]PageRecord, 0, len(d.Records))
	for _, r := range d.Records {
		if r.Status != nil && *r.Status == 200 {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// LoadJSONL reads a crawl in JSON-lines form, one record per line. Blank
// lines are skipped; a malformed line fails the whole load with its line
// number so truncated crawl output surfaces immediately.
func LoadJSONL(r io.Reader) (*Dataset, error) {
	ds := &Dataset{columns: make(map[string]bool)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var rec PageRecord
		if err := rec.fromFields(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for key := range fields {
			ds.columns[key] = true
		}
		ds.Records = append(ds.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading crawl data: %w", err)
	}
	return ds, nil
}

// LoadFile loads a JSONL crawl file from disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening crawl file: %w", err)
	}
	defer f.Close()
	return LoadJSONL(f)
}
