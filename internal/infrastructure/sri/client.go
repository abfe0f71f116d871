// Package sri implements the fiscal authority client. It talks to an
// e-invoicing provider endpoint, or synthesizes authorizations locally
// when simulation mode is configured.
package sri

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"github.com/tecnano/factura-api/internal/fiscal"
)

// statusAuthorized is the authority's "authorized" keyword. Any other
// status in an accepted response is a fiscal refusal, not a transport error.
const statusAuthorized = "AUTHORIZED"

// issueDateLayout matches what the provider expects in the request body.
const issueDateLayout = "2006-01-02 15:04"

// Client submits composed fiscal documents to the authority. It never
// returns an error for ordinary business failures: every failure is
// normalized into a SubmissionResult with ERROR status and a message.
type Client struct {
	cfg    config.FiscalConfig
	issuer config.BusinessConfig
	http   *http.Client
}

// New creates an authority client. The HTTP timeout bounds the single
// blocking call of the whole pipeline; a hung provider cannot stall the
// orchestrator past it.
func New(cfg config.FiscalConfig, issuer config.BusinessConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:    cfg,
		issuer: issuer,
		http:   &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	DocumentBase64 string `json:"documentBase64"`
	ArtifactBase64 string `json:"artifactBase64,omitempty"`
	SaleReference  string `json:"saleReference"`
	PaymentMethod  string `json:"paymentMethod"`
	CustomerType   string `json:"customerType"`
	Location       string `json:"location"`
	IssueDate      string `json:"issueDate"`
	IssuerTaxID    string `json:"issuerTaxId"`
	IssuerName     string `json:"issuerName"`
}

type submitResponse struct {
	Status              string `json:"status"`
	Message             string `json:"message"`
	AccessKey           string `json:"accessKey"`
	AuthorizationNumber string `json:"authorizationNumber"`
	ArtifactBase64      string `json:"artifactBase64"`
}

// Submit sends the document (and rendered artifact, if any) for the sale.
func (c *Client) Submit(ctx context.Context, sale *entity.Sale, document, artifact []byte) fiscal.SubmissionResult {
	if c.cfg.Simulate {
		log.Printf("[sri] simulating submission for sale %s", sale.Reference())
		return c.simulate(sale, artifact)
	}

	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		msg := "fiscal provider base URL is not configured"
		log.Printf("[sri] %s", msg)
		return fiscal.ErrorResult(msg)
	}
	if strings.TrimSpace(c.cfg.Token) == "" {
		msg := "fiscal provider token is not configured"
		log.Printf("[sri] %s", msg)
		return fiscal.ErrorResult(msg)
	}

	body := submitRequest{
		DocumentBase64: base64.StdEncoding.EncodeToString(document),
		SaleReference:  sale.Reference(),
		PaymentMethod:  sale.PaymentMethod.String(),
		CustomerType:   customerType(sale),
		Location:       sale.Location,
		IssueDate:      sale.IssuedAt.Format(issueDateLayout),
		IssuerTaxID:    c.issuer.TaxID,
		IssuerName:     c.issuer.Name,
	}
	if len(artifact) > 0 {
		body.ArtifactBase64 = base64.StdEncoding.EncodeToString(artifact)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fiscal.ErrorResult("encoding submission request: " + err.Error())
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/documents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fiscal.ErrorResult("building submission request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	// Same sale, same key: a retry after an ambiguous timeout presents
	// itself as a duplicate to the provider.
	req.Header.Set("Idempotency-Key", sale.Reference())

	log.Printf("[sri] submitting sale %s to %s", sale.Reference(), url)
	res, err := c.http.Do(req)
	if err != nil {
		msg := "calling fiscal provider: " + err.Error()
		log.Printf("[sri] sale %s: %s", sale.Reference(), msg)
		return fiscal.ErrorResult(msg)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := fmt.Sprintf("fiscal provider returned %s", res.Status)
		log.Printf("[sri] sale %s: %s", sale.Reference(), msg)
		return fiscal.ErrorResult(msg)
	}

	var pr submitResponse
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		msg := "decoding fiscal provider response: " + err.Error()
		log.Printf("[sri] sale %s: %s", sale.Reference(), msg)
		return fiscal.ErrorResult(msg)
	}
	if pr.Status == "" {
		msg := "fiscal provider returned an empty response"
		log.Printf("[sri] sale %s: %s", sale.Reference(), msg)
		return fiscal.ErrorResult(msg)
	}

	log.Printf("[sri] sale %s: provider status=%s message=%q", sale.Reference(), pr.Status, pr.Message)

	result := fiscal.SubmissionResult{
		AccessKey:           pr.AccessKey,
		AuthorizationNumber: pr.AuthorizationNumber,
	}
	if strings.EqualFold(pr.Status, statusAuthorized) {
		result.Status = enum.FiscalStatusAuthorized
	} else {
		// Transport success, fiscal refusal.
		result.Status = enum.FiscalStatusRejected
		result.Message = pr.Message
	}

	if pr.ArtifactBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(pr.ArtifactBase64)
		if err != nil {
			msg := "decoding returned artifact: " + err.Error()
			log.Printf("[sri] sale %s: %s", sale.Reference(), msg)
			return fiscal.ErrorResult(msg)
		}
		result.Artifact = decoded
	}

	return result
}

// simulate synthesizes a deterministic-looking authorization without any
// network access; the locally rendered artifact is echoed back unchanged.
func (c *Client) simulate(sale *entity.Sale, artifact []byte) fiscal.SubmissionResult {
	return fiscal.SubmissionResult{
		Status:              enum.FiscalStatusAuthorized,
		AccessKey:           "SIM-" + sale.Reference(),
		AuthorizationNumber: "AUTH-" + uuid.New().String(),
		Artifact:            artifact,
	}
}

func customerType(sale *entity.Sale) string {
	if sale.Customer == nil {
		return "FINAL_CONSUMER"
	}
	return sale.Customer.IdentificationType.String()
}
