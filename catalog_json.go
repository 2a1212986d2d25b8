package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// CatalogMapping locates instruments in an arbitrary JSON document.
//
// Items selects the list of instruments in the document. Every other field is
// evaluated against one item. Only ISIN and Price are required; an empty path
// skips the field.
type CatalogMapping struct {
	Items       string `toml:"items"`
	ISIN        string `toml:"isin"`
	Name        string `toml:"name"`
	Category    string `toml:"category"`
	Subcategory string `toml:"subcategory"`
	Currency    string `toml:"currency"`
	TER         string `toml:"ter"`
	Price       string `toml:"price"`
	ChangeDay   string `toml:"change_day"`
	ChangeYear  string `toml:"change_year"`
}

// DefaultCatalogMapping reads documents shaped like
//
//	{"instruments": [{"isin": "...", "name": "...", "price": 98.4, ...}]}
func DefaultCatalogMapping() CatalogMapping {
	return CatalogMapping{
		Items:       "$.instruments[*]",
		ISIN:        "$.isin",
		Name:        "$.name",
		Category:    "$.category",
		Subcategory: "$.subcategory",
		Currency:    "$.currency",
		TER:         "$.ter",
		Price:       "$.price",
		ChangeDay:   "$.changeDay",
		ChangeYear:  "$.changeYear",
	}
}

// DecodeCatalog reads a JSON document from r and builds a catalog using mapping.
func DecodeCatalog(r io.Reader, mapping CatalogMapping) (*MemoryCatalog, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep prices exact
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode catalog: %w", err)
	}
	if mapping.ISIN == "" || mapping.Price == "" {
		return nil, fmt.Errorf("catalog mapping requires isin and price paths")
	}
	jitems, err := jsonpath.Get(mapping.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select catalog items with %q: %w", mapping.Items, err)
	}
	items, ok := jitems.([]any)
	if !ok {
		items = []any{jitems}
	}

	catalog := &MemoryCatalog{instruments: make(map[string]Instrument, len(items))}
	for i, item := range items {
		inst, err := decodeInstrument(item, mapping)
		if err != nil {
			return nil, fmt.Errorf("catalog item #%d: %w", i, err)
		}
		if err := catalog.Put(inst); err != nil {
			return nil, fmt.Errorf("catalog item #%d: %w", i, err)
		}
	}
	return catalog, nil
}

// FetchCatalog downloads a JSON document and decodes it with DecodeCatalog.
func FetchCatalog(ctx context.Context, client *http.Client, url string, mapping CatalogMapping) (*MemoryCatalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch catalog %q: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot fetch catalog %q: %s", url, resp.Status)
	}
	return DecodeCatalog(resp.Body, mapping)
}

func decodeInstrument(item any, m CatalogMapping) (Instrument, error) {
	var inst Instrument
	var err error
	if inst.ISIN, err = pathString(item, m.ISIN, true); err != nil {
		return inst, err
	}
	for _, f := range []struct {
		path string
		dst  *string
	}{
		{m.Name, &inst.Name},
		{m.Category, &inst.Category},
		{m.Subcategory, &inst.Subcategory},
		{m.Currency, &inst.Currency},
	} {
		if *f.dst, err = pathString(item, f.path, false); err != nil {
			return inst, err
		}
	}
	if inst.Price, err = pathDecimal(item, m.Price, true); err != nil {
		return inst, fmt.Errorf("%s: %w", inst.ISIN, err)
	}
	for _, f := range []struct {
		path string
		dst  *Percent
	}{
		{m.TER, &inst.TER},
		{m.ChangeDay, &inst.ChangeDay},
		{m.ChangeYear, &inst.ChangeYear},
	} {
		d, err := pathDecimal(item, f.path, false)
		if err != nil {
			return inst, fmt.Errorf("%s: %w", inst.ISIN, err)
		}
		*f.dst = Percent(d.InexactFloat64())
	}
	return inst, nil
}

// pathValue evaluates path against item. A missing key is not an error unless required.
func pathValue(item any, path string, required bool) (any, error) {
	if path == "" {
		return nil, nil
	}
	v, err := jsonpath.Get(path, item)
	if err != nil {
		if required {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		return nil, nil
	}
	// jsonpath is never clear about whether it returns a list of 1 answer, or a single answer.
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			v = nil
		} else {
			v = list[0]
		}
	}
	if v == nil && required {
		return nil, fmt.Errorf("%q: no value", path)
	}
	return v, nil
}

func pathString(item any, path string, required bool) (string, error) {
	v, err := pathValue(item, path, required)
	if err != nil || v == nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("%q: expected a string, got %T", path, v)
	}
}

func pathDecimal(item any, path string, required bool) (decimal.Decimal, error) {
	v, err := pathValue(item, path, required)
	if err != nil || v == nil {
		return decimal.Zero, err
	}
	switch t := v.(type) {
	case json.Number:
		return decimal.NewFromString(t.String())
	case float64:
		return decimal.NewFromString(strconv.FormatFloat(t, 'f', -1, 64))
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%q: %w", path, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%q: expected a number, got %T", path, v)
	}
}
