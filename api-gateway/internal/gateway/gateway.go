package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	StorefrontSvcURL string
	PaymentSvcURL    string
	// StaticDir holds the built SPA. index.html is served for every non-API path
	// that does not name a file.
	StaticDir string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *zap.SugaredLogger
}

// storefrontPrefixes are the API paths owned by storefront-svc.
var storefrontPrefixes = []string{
	"/api/cart",
	"/api/auth/",
	"/api/orders",
	"/api/group-orders/",
	"/api/restaurants/",
	"/api/menu/",
}

func NewGateway(config Config, client HTTPClient, logger *zap.SugaredLogger) *Gateway {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.logger.Debugw("proxy", "method", r.Method, "path", r.URL.Path, "target", targetURL)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Errorw("failed to create proxy request", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create upstream request")
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.Header.Set("X-Forwarded-Host", r.Host)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Errorw("upstream unavailable", "target", targetURL, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "Upstream service unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warnw("failed to copy upstream response", "path", r.URL.Path, "error", err)
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if strings.HasPrefix(path, "/api/payments/") {
		g.ProxyRequest(w, r, g.config.PaymentSvcURL)
		return
	}

	for _, prefix := range storefrontPrefixes {
		if strings.HasPrefix(path, prefix) {
			g.ProxyRequest(w, r, g.config.StorefrontSvcURL)
			return
		}
	}

	if strings.HasPrefix(path, "/api/") {
		g.logger.Infow("unmatched api route", "method", r.Method, "path", path)
		writeError(w, http.StatusNotFound, "API route not found")
		return
	}

	g.serveSPA(w, r)
}

func (g *Gateway) serveSPA(w http.ResponseWriter, r *http.Request) {
	dir := g.config.StaticDir
	if dir == "" {
		dir = "./frontend"
	}

	name := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}
	http.ServeFile(w, r, filepath.Join(dir, "index.html"))
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods(http.MethodGet)
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}

// Handler is the public entry point: the routes behind CORS. Preflights are
// answered here with 200 and never reach the upstream services.
func (g *Gateway) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:       []string{"*"},
		ExposedHeaders:       []string{"X-Session-ID"},
		OptionsSuccessStatus: http.StatusOK,
	})
	return c.Handler(g.SetupRoutes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
