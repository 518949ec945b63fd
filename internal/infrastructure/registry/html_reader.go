package registry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"RegistryLinker/internal/dataset"
	"RegistryLinker/internal/domain"
	"RegistryLinker/pkg/normalize"
)

// HTMLReader reads a registry published as an HTML table (the national
// registry publishes approval lists as paginated web tables). Column
// positions are mapped through request options:
//
//	nameCell        required, zero-based cell index of the drug name
//	identifierCell  optional cell index of the standardized code
//	dateCell        optional cell index of the approval date
//	indicationCell  optional cell index of the indication
//	tableSelector   optional CSS selector, defaults to "table tr"
type HTMLReader struct {
	client *http.Client
}

// NewHTMLReader wires an HTTP client; a nil client gets a 20s timeout default.
func NewHTMLReader(client *http.Client) *HTMLReader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTMLReader{client: client}
}

var _ dataset.Reader = (*HTMLReader)(nil)

// Name identifies the strategy inside the registry.
func (h *HTMLReader) Name() string {
	return "registry-html"
}

// Read fetches the registry page and extracts one record per table row.
func (h *HTMLReader) Read(ctx context.Context, req dataset.Request) ([]domain.Record, error) {
	nameCell, err := requiredCell(req.Options, "nameCell")
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", req.Name, err)
	}

	doc, err := h.fetchDocument(ctx, req.Location)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", req.Name, err)
	}

	selector := req.Options["tableSelector"]
	if selector == "" {
		selector = "table tr"
	}

	idCell := optionalCell(req.Options, "identifierCell")
	dateCell := optionalCell(req.Options, "dateCell")
	indicationCell := optionalCell(req.Options, "indicationCell")

	var records []domain.Record
	doc.Find(selector).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		raw := strings.TrimSpace(cells.Eq(nameCell).Text())
		if raw == "" {
			return // header or blank row
		}

		metadata := map[string]string{}
		if v := cellText(cells, dateCell); v != "" {
			metadata["approval_date"] = v
		}
		if v := cellText(cells, indicationCell); v != "" {
			metadata["indication"] = v
		}

		records = append(records, domain.Record{
			Index:         len(records),
			RawName:       raw,
			CanonicalName: normalize.Name(raw),
			Identifier:    cellText(cells, idCell),
			Side:          req.Side,
			Metadata:      metadata,
		})
	})

	return records, nil
}

func (h *HTMLReader) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "RegistryLinker/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func requiredCell(options map[string]string, key string) (int, error) {
	raw, ok := options[key]
	if !ok {
		return 0, fmt.Errorf("%s option is required", key)
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%s must be a non-negative cell index", key)
	}
	return idx, nil
}

func optionalCell(options map[string]string, key string) int {
	raw, ok := options[key]
	if !ok {
		return -1
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return -1
	}
	return idx
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}
