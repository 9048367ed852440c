package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

// CallerIdentity holds the resolved GCP identity from Application Default Credentials.
type CallerIdentity struct {
	// Email is the service account address or user email.
	Email string
	// ProjectID is the GCP project associated with the credentials.
	ProjectID string
	// TokenType is the ADC credential type, e.g. "service_account" or
	// "authorized_user".
	TokenType string
}

// Credential type found in ADC JSON for service account keys.
const credTypeServiceAccount = "service_account"

type adcJSON struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
}

type userinfoResponse struct {
	Email            string `json:"email"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// CallerIdentity verifies the credentials can mint a token and returns the
// identity they resolve to. The email of user credentials is looked up on
// the userinfo endpoint; a failed lookup leaves it empty.
func (c *Client) CallerIdentity(ctx context.Context) (*CallerIdentity, error) {
	token, err := c.credentials.TokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh GCP credentials: %w", err)
	}
	if !token.Valid() {
		return nil, errors.New("GCP credentials are expired")
	}

	identity := &CallerIdentity{ProjectID: c.project}

	var adc adcJSON
	if len(c.credentials.JSON) > 0 && json.Unmarshal(c.credentials.JSON, &adc) == nil {
		identity.TokenType = adc.Type
		if adc.Type == credTypeServiceAccount {
			identity.Email = adc.ClientEmail
		}
	}

	if identity.Email == "" {
		if email, err := c.fetchUserEmail(ctx); err == nil {
			identity.Email = email
		} else {
			c.logger.WithError(err).Debug("failed to look up GCP account email")
		}
	}

	return identity, nil
}

func (c *Client) fetchUserEmail(ctx context.Context) (string, error) {
	httpClient := oauth2.NewClient(ctx, c.credentials.TokenSource)
	httpClient.Timeout = 5 * time.Second

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var info userinfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return "", err
	}
	if info.Error != "" {
		return "", fmt.Errorf("%s: %s", info.Error, info.ErrorDescription)
	}

	return info.Email, nil
}
