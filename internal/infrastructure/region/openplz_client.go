package region

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPostalCodeNotFound la API no conoce el código postal.
var ErrPostalCodeNotFound = errors.New("region: código postal no encontrado")

// OpenPLZClient consulta una API de localidades estilo OpenPLZ:
// GET {base}/Localities?postalCode=40210 -> [{"federalState":{"name":"..."}}].
type OpenPLZClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenPLZClient construye el cliente. timeout <= 0 usa 5 s.
func NewOpenPLZClient(baseURL string, timeout time.Duration) *OpenPLZClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OpenPLZClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo ──────────────────────────────────────────────────

type locality struct {
	PostalCode   string `json:"postalCode"`
	Name         string `json:"name"`
	FederalState struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"federalState"`
}

// FederalState devuelve el nombre del estado federado del código postal.
func (c *OpenPLZClient) FederalState(ctx context.Context, postalCode string) (string, error) {
	endpoint := c.baseURL + "/Localities?postalCode=" + url.QueryEscape(postalCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("region: crear HTTP request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("region: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("region: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("region: leer respuesta: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrPostalCodeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("region: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var localities []locality
	if err := json.Unmarshal(body, &localities); err != nil {
		return "", fmt.Errorf("region: deserializar respuesta: %w", err)
	}
	for _, l := range localities {
		if name := strings.TrimSpace(l.FederalState.Name); name != "" {
			return name, nil
		}
	}
	return "", ErrPostalCodeNotFound
}
