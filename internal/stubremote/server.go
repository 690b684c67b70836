// Package stubremote is an in-memory stand-in for the record API. It serves the
// same routes as the real service so imports can be rehearsed locally and tested
// end to end; it is not a record store.
package stubremote

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Route names a stubbed endpoint for fault injection.
type Route string

const (
	RouteLogin  Route = "login"
	RouteCount  Route = "count"
	RouteSearch Route = "search"
	RouteImport Route = "import"
)

// Options configures the stub.
type Options struct {
	Username string
	Password string
	Token    string
	// NameHeaders and CompanyHeaders are substrings used to find columns in imported CSV.
	NameHeaders    []string
	CompanyHeaders []string
}

// Record is one stored row.
type Record struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Filename string `json:"filename,omitempty"`
}

type Server struct {
	app  *fiber.App
	opts Options

	mu         sync.Mutex
	records    []Record
	nextID     int64
	faults     map[Route][]int
	calls      map[Route]int
	requestIDs []string
}

func New(opts Options) *Server {
	if opts.Token == "" {
		opts.Token = "stub-token"
	}
	if len(opts.NameHeaders) == 0 {
		opts.NameHeaders = []string{"name", "product", "名称", "品名", "产品"}
	}
	if len(opts.CompanyHeaders) == 0 {
		opts.CompanyHeaders = []string{"company", "公司"}
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	s := &Server{
		app:    app,
		opts:   opts,
		nextID: 1,
		faults: make(map[Route][]int),
		calls:  make(map[Route]int),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")
	api.Post("/auth/login", s.faulty(RouteLogin), s.handleLogin)
	api.Get("/records/search", s.faulty(RouteSearch), s.requireToken, s.handleSearch)
	api.Get("/records", s.faulty(RouteCount), s.requireToken, s.handleCount)
	api.Post("/records/import", s.faulty(RouteImport), s.requireToken, s.handleImport)
}

// App exposes the fiber app, mainly for app.Test based transports.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	logger.Infow("Stub record API listening", "addr", addr, "prefix", "/api")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Seed stores records as if they had been imported earlier.
func (s *Server) Seed(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		r.ID = s.nextID
		s.nextID++
		s.records = append(s.records, r)
	}
}

// FailNext makes the next `times` calls to route answer with status.
func (s *Server) FailNext(route Route, status, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < times; i++ {
		s.faults[route] = append(s.faults[route], status)
	}
}

// Count returns the number of stored records.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Calls returns how many requests reached route, injected faults included.
func (s *Server) Calls(route Route) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// RequestIDs returns the X-Request-ID of every import call in arrival order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Records returns a copy of the stored records.
func (s *Server) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

func (s *Server) faulty(route Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.mu.Lock()
		s.calls[route]++
		if route == RouteImport {
			s.requestIDs = append(s.requestIDs, c.Get("X-Request-ID"))
		}
		var status int
		if queue := s.faults[route]; len(queue) > 0 {
			status = queue[0]
			s.faults[route] = queue[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			logger.Debugw("Stub injecting fault", "route", string(route), "status", status)
			return c.Status(status).JSON(fiber.Map{"error": "injected fault"})
		}
		return c.Next()
	}
}

func (s *Server) requireToken(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) != "Bearer "+s.opts.Token {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.Next()
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.Username != s.opts.Username || req.Password != s.opts.Password {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}
	return c.JSON(fiber.Map{"token": s.opts.Token})
}

func (s *Server) handleCount(c *fiber.Ctx) error {
	total := s.Count()
	return c.JSON(fiber.Map{
		"pagination": fiber.Map{
			"page":     c.QueryInt("page", 1),
			"pageSize": c.QueryInt("pageSize", 20),
			"total":    total,
		},
	})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	company := strings.TrimSpace(c.Query("company"))

	s.mu.Lock()
	items := make([]Record, 0)
	for _, r := range s.records {
		if q != "" && !strings.Contains(r.Name, q) {
			continue
		}
		if company != "" && !strings.Contains(r.Company, company) {
			continue
		}
		items = append(items, r)
	}
	s.mu.Unlock()

	return c.JSON(fiber.Map{"items": items})
}

func (s *Server) handleImport(c *fiber.Ctx) error {
	var req struct {
		Data     string `json:"data"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil || strings.TrimSpace(req.Data) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "data is required"})
	}

	rows, err := s.parseRows(req.Data, req.Filename)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	s.Seed(rows...)

	return c.JSON(fiber.Map{"success": true, "imported": len(rows)})
}

func (s *Server) parseRows(data, filename string) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, nil
	}

	nameCol := findColumn(lines[0], s.opts.NameHeaders, 0)
	companyCol := findColumn(lines[0], s.opts.CompanyHeaders, -1)

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		r := Record{Filename: filename}
		if nameCol < len(line) {
			r.Name = strings.TrimSpace(line[nameCol])
		}
		if companyCol >= 0 && companyCol < len(line) {
			r.Company = strings.TrimSpace(line[companyCol])
		}
		records = append(records, r)
	}
	return records, nil
}

func findColumn(header, candidates []string, fallback int) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, c := range candidates {
			if strings.Contains(h, strings.ToLower(c)) {
				return i
			}
		}
	}
	return fallback
}

type appTransport struct {
	app *fiber.App
}

// Transport returns a RoundTripper that serves requests from the fiber app in memory.
func (s *Server) Transport() http.RoundTripper {
	return appTransport{app: s.app}
}

func (t appTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.app.Test(req, -1)
}
