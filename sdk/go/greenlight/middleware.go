package greenlight

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// KindHeader names the artifact kind on submission requests.
const KindHeader = "X-Artifact-Kind"

// AgentHeader names the submitting agent on submission requests.
const AgentHeader = "X-Agent-Id"

// Middleware returns an http.Handler that verifies the request body as an
// artifact before passing to the next handler. Rejected submissions
// receive a 403 with the verdict as a JSON body. The body is restored for
// the next handler.
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		artifact := artifactFromRequest(r, body)

		verdict, err := c.verifyAs(r.Context(), agentFromRequest(r, c.cfg.agentID), artifact, Seed{})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if !verdict.Approved {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"approved":   false,
				"verdict_id": verdict.ID,
				"risk_level": verdict.RiskLevel,
				"failure":    verdict.Failure,
				"message":    verdict.Message,
				"issues":     verdict.Issues,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// artifactFromRequest maps an HTTP submission to an SDK Artifact.
// Kind defaults to text when the header is absent.
func artifactFromRequest(r *http.Request, body []byte) Artifact {
	kind := Kind(r.Header.Get(KindHeader))
	if kind == "" {
		kind = KindText
	}
	return Artifact{Kind: kind, Body: string(body)}
}

func agentFromRequest(r *http.Request, fallback string) string {
	if agent := r.Header.Get(AgentHeader); agent != "" {
		return agent
	}
	return fallback
}
