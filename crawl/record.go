// Package crawl defines the crawl dataset model: one PageRecord per crawled
// URL, parsed from line-delimited JSON the way the crawler emits it.
package crawl

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MultiValueSep joins multiple extracted values (headings, image attributes,
// links) when a record stores them as a single string instead of a JSON array.
const MultiValueSep = "@@"

// StringList is a multi-valued page field. It accepts a JSON array, a single
// string (optionally MultiValueSep-joined), a scalar, or null, and preserves
// every entry as-is, blanks included. Use Values to get the cleaned view.
type StringList []string

// UnmarshalJSON implements the lenient decoding described above.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*l = nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, coerceString(item))
		}
		*l = out
	case string:
		*l = SplitMultiValue(v)
	default:
		*l = StringList{coerceString(v)}
	}
	return nil
}

// SplitMultiValue turns a raw string field into its entries. A string
// containing the separator token splits on it; anything else is a single
// entry. An empty string yields no entries. Pieces are kept verbatim so
// blank entries remain countable (image alt accounting relies on this).
func SplitMultiValue(raw string) StringList {
	if raw == "" {
		return nil
	}
	if strings.Contains(raw, MultiValueSep) {
		return strings.Split(raw, MultiValueSep)
	}
	return StringList{raw}
}

// Values returns the list's entries trimmed of surrounding whitespace with
// blanks dropped, in original order. This is the single normalization used by
// every check that consumes a multi-valued field.
func (l StringList) Values() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// PageRecord holds the extracted signals of one crawled page. Every field
// except URL is optional; a nil pointer or empty list means the signal was
// not captured for that page, which is a normal state, not an error.
type PageRecord struct {
	URL       string
	Status    *int
	Title     *string
	H1        StringList
	MetaDesc  *string
	Canonical *string
	ImgSrc    StringList
	ImgAlt    StringList
	LinksURL  StringList
	Size      *int64
	Latency   *float64
	BodyText  *string

	// Social tags, folded across the known column aliases
	// (og:title / og_title / twitter:title and so on).
	OGTitle *string
	OGDesc  *string
	OGImage *string

	// Structured data, keyed by the jsonld_* suffix. Only non-empty values
	// are kept, so a non-empty map means the page carries schema markup.
	JSONLD map[string]any

	// Response header excerpts surfaced in page details.
	Server   string
	ErrorMsg string
}

// Column aliases recognized when folding social tags.
var (
	ogTitleAliases = []string{"og:title", "og_title", "twitter:title"}
	ogDescAliases  = []string{"og:description", "og_description", "twitter:description"}
	ogImageAliases = []string{"og:image", "og_image", "twitter:image"}
)

// UnmarshalJSON decodes one JSONL record, accepting both the array and the
// separator-joined representation for multi-valued fields, and folding the
// social/schema column aliases into their canonical slots.
func (r *PageRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	return r.fromFields(fields)
}

func (r *PageRecord) fromFields(fields map[string]json.RawMessage) error {
	if raw, ok := fields["url"]; ok {
		if err := json.Unmarshal(raw, &r.URL); err != nil {
			return err
		}
	}
	r.Status = decodeInt(fields["status"])
	r.Title = decodeString(fields["title"])
	r.MetaDesc = decodeString(fields["meta_desc"])
	r.Canonical = decodeString(fields["canonical"])
	r.Size = decodeInt64(fields["size"])
	r.Latency = decodeFloat(fields["download_latency"])

	decodeList(fields["h1"], &r.H1)
	decodeList(fields["img_src"], &r.ImgSrc)
	decodeList(fields["img_alt"], &r.ImgAlt)
	decodeList(fields["links_url"], &r.LinksURL)

	// The crawler writes page_body_text; older datasets used body_text.
	if raw, ok := fields["page_body_text"]; ok {
		r.BodyText = decodeString(raw)
	} else {
		r.BodyText = decodeString(fields["body_text"])
	}

	r.OGTitle = firstAlias(fields, ogTitleAliases)
	r.OGDesc = firstAlias(fields, ogDescAliases)
	r.OGImage = firstAlias(fields, ogImageAliases)

	for key, raw := range fields {
		if key != "jsonld" && !strings.HasPrefix(key, "jsonld_") {
			continue
		}
		var val any
		if err := json.Unmarshal(raw, &val); err != nil || val == nil {
			continue
		}
		if list, ok := val.([]any); ok && len(list) == 0 {
			continue
		}
		if s, ok := val.(string); ok && s == "" {
			continue
		}
		if r.JSONLD == nil {
			r.JSONLD = make(map[string]any)
		}
		r.JSONLD[strings.TrimPrefix(key, "jsonld_")] = val
	}

	if s := decodeString(fields["resp_headers_Server"]); s != nil {
		r.Server = *s
	}
	if s := decodeString(fields["resp_headers_X-Amz-Error-Message"]); s != nil && *s != "" {
		r.ErrorMsg = *s
	} else if s := decodeString(fields["resp_headers_X-Amz-Error-Code"]); s != nil {
		r.ErrorMsg = *s
	}
	return nil
}

// MarshalJSON writes the record back out under the same column names the
// loader reads, skipping unset fields so round-tripping preserves column
// presence. Multi-valued fields are written as arrays.
func (r PageRecord) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"url": r.URL}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.H1 != nil {
		fields["h1"] = []string(r.H1)
	}
	if r.MetaDesc != nil {
		fields["meta_desc"] = *r.MetaDesc
	}
	if r.Canonical != nil {
		fields["canonical"] = *r.Canonical
	}
	if r.ImgSrc != nil {
		fields["img_src"] = []string(r.ImgSrc)
	}
	if r.ImgAlt != nil {
		fields["img_alt"] = []string(r.ImgAlt)
	}
	if r.LinksURL != nil {
		fields["links_url"] = []string(r.LinksURL)
	}
	if r.Size != nil {
		fields["size"] = *r.Size
	}
	if r.Latency != nil {
		fields["download_latency"] = *r.Latency
	}
	if r.BodyText != nil {
		fields["page_body_text"] = *r.BodyText
	}
	if r.OGTitle != nil {
		fields["og:title"] = *r.OGTitle
	}
	if r.OGDesc != nil {
		fields["og:description"] = *r.OGDesc
	}
	if r.OGImage != nil {
		fields["og:image"] = *r.OGImage
	}
	for key, val := range r.JSONLD {
		fields["jsonld_"+key] = val
	}
	if r.Server != "" {
		fields["resp_headers_Server"] = r.Server
	}
	if r.ErrorMsg != "" {
		fields["resp_headers_X-Amz-Error-Message"] = r.ErrorMsg
	}
	return json.Marshal(fields)
}

func firstAlias(fields map[string]json.RawMessage, aliases []string) *string {
	for _, name := range aliases {
		if v := decodeString(fields[name]); v != nil {
			return v
		}
	}
	return nil
}

func decodeString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return nil
	}
	s := coerceString(v)
	return &s
}

func decodeInt(raw json.RawMessage) *int {
	f := decodeFloat(raw)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func decodeInt64(raw json.RawMessage) *int64 {
	f := decodeFloat(raw)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

func decodeFloat(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		// Numbers occasionally arrive as quoted strings.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return v
}

func decodeList(raw json.RawMessage, dst *StringList) {
	if len(raw) == 0 {
		return
	}
	_ = dst.UnmarshalJSON(raw)
}
