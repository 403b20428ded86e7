//go:build unit || e2e

// Package ledgertest runs an in-process stand-in for the commerce platform
// gateway so end-to-end tests can script ledger behavior.
package ledgertest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Record struct {
	TransactionID string     `json:"transaction_id"`
	ProductID     string     `json:"product_id"`
	Trust         string     `json:"trust"`
	TrustReason   string     `json:"trust_reason,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
}

type Product struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	DisplayPrice string `json:"display_price"`
}

// PurchaseScript controls the response to the next purchase of a product.
type PurchaseScript struct {
	Status   string
	Verified bool
	Error    string
}

type Server struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu            sync.Mutex
	records       map[uuid.UUID][]Record
	products      []Product
	scripts       map[string]PurchaseScript
	purchaseCalls int
	streams       map[uuid.UUID][]*websocket.Conn
}

func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		records: make(map[uuid.UUID][]Record),
		scripts: make(map[string]PurchaseScript),
		streams: make(map[uuid.UUID][]*websocket.Conn),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.route))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) BaseURL() string {
	return s.srv.URL
}

func (s *Server) StreamURL() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

// Reset clears all scripted state between subtests. Open stream connections
// are left to close with their clients.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[uuid.UUID][]Record)
	s.products = nil
	s.scripts = make(map[string]PurchaseScript)
	s.purchaseCalls = 0
}

func (s *Server) SetRecords(userID uuid.UUID, records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = records
}

func (s *Server) SetProducts(products ...Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

// ScriptPurchase overrides the default granted+verified purchase response
// for one product.
func (s *Server) ScriptPurchase(productID string, script PurchaseScript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[productID] = script
}

func (s *Server) PurchaseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchaseCalls
}

// PushUpdate delivers a transaction record over every open stream for the
// user, mimicking a live revocation or renewal event.
func (s *Server) PushUpdate(userID uuid.UUID, record Record) {
	s.mu.Lock()
	conns := append([]*websocket.Conn(nil), s.streams[userID]...)
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.WriteJSON(record)
	}
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.URL.Path == "/v1/products" && r.Method == http.MethodGet:
		s.handleProducts(w, r)
	case len(parts) == 4 && parts[0] == "v1" && parts[1] == "users" && parts[3] == "entitlements" && r.Method == http.MethodGet:
		s.handleEntitlements(w, parts[2])
	case len(parts) == 4 && parts[0] == "v1" && parts[1] == "users" && parts[3] == "purchases" && r.Method == http.MethodPost:
		s.handlePurchase(w, r, parts[2])
	case len(parts) == 5 && parts[0] == "v1" && parts[1] == "users" && parts[3] == "transactions" && parts[4] == "stream":
		s.handleStream(w, r, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleEntitlements(w http.ResponseWriter, rawUserID string) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	records := append([]Record(nil), s.records[userID]...)
	s.mu.Unlock()

	if records == nil {
		records = []Record{}
	}
	writeJSON(w, map[string]any{"records": records})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	wanted := map[string]bool{}
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id != "" {
			wanted[id] = true
		}
	}

	s.mu.Lock()
	var matched []Product
	for _, p := range s.products {
		if len(wanted) == 0 || wanted[p.ID] {
			matched = append(matched, p)
		}
	}
	s.mu.Unlock()

	if matched == nil {
		matched = []Product{}
	}
	writeJSON(w, map[string]any{"products": matched})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request, rawUserID string) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.purchaseCalls++
	script, ok := s.scripts[req.ProductID]
	if !ok {
		script = PurchaseScript{Status: "granted", Verified: true}
	}
	if script.Status == "granted" {
		trust := "unverified"
		if script.Verified {
			trust = "verified"
		}
		s.records[userID] = append(s.records[userID], Record{
			TransactionID: uuid.NewString(),
			ProductID:     req.ProductID,
			Trust:         trust,
		})
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"status":   script.Status,
		"verified": script.Verified,
		"error":    script.Error,
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, rawUserID string) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.streams[userID] = append(s.streams[userID], conn)
	s.mu.Unlock()

	// Drain acks until the client goes away.
	go func() {
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				conns := s.streams[userID]
				for i, c := range conns {
					if c == conn {
						s.streams[userID] = append(conns[:i], conns[i+1:]...)
						break
					}
				}
				s.mu.Unlock()
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
