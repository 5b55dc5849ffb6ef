package mock

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

// Server is an in-process stand-in for the Fikiri backend, selected by the
// mock/live feature flag and used heavily by tests. It serves the same
// endpoint shapes as the real API from seeded in-memory state, plus the SSE
// live-update stream.
type Server struct {
	engine *gin.Engine
	http   *httptest.Server

	mu           sync.Mutex
	subscription gin.H
	invoices     []gin.H
	leads        []gin.H
	emails       []gin.H
	dashboard    map[string]gin.H
	nextLeadID   int

	frames *frameHub
}

type Options struct {
	// WithoutSubscription makes /subscription answer 404, the expected-empty
	// case for accounts that never subscribed.
	WithoutSubscription bool
}

func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		invoices:   seedInvoices(),
		leads:      seedLeads(),
		emails:     seedEmails(),
		dashboard:  seedDashboard(),
		nextLeadID: 100,
		frames:     newFrameHub(),
	}
	if !opts.WithoutSubscription {
		s.subscription = seedSubscription()
	}

	s.routes()
	s.http = httptest.NewServer(s.engine)
	return s
}

func (s *Server) URL() string {
	return s.http.URL
}

func (s *Server) Close() {
	s.frames.close()
	s.http.Close()
}

// PushFrame publishes a live-update frame to every connected stream client.
func (s *Server) PushFrame(resource string, payload gin.H) {
	s.frames.publish(sseFrame{Resource: resource, Payload: payload})
}

func (s *Server) routes() {
	s.engine.GET("/pricing-tiers", func(c *gin.Context) {
		c.JSON(http.StatusOK, seedTiers())
	})

	s.engine.GET("/subscription", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.subscription == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no subscription"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subscription": s.subscription})
	})

	s.engine.GET("/invoices", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.JSON(http.StatusOK, s.invoices)
	})

	s.engine.GET("/usage", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"emails_sent": 42, "leads_created": 17, "ai_responses": 9})
	})

	s.engine.POST("/checkout-session", func(c *gin.Context) {
		var params struct {
			Tier          string `json:"tier"`
			BillingPeriod string `json:"billingPeriod"`
			UseTrial      bool   `json:"useTrial"`
		}
		if err := c.ShouldBindJSON(&params); err != nil || params.Tier == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tier is required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"checkout_url": "https://pay.example.com/checkout/" + params.Tier + "/" + params.BillingPeriod,
		})
	})

	s.engine.POST("/portal-session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"url": "https://pay.example.com/portal/session"})
	})

	s.crmRoutes()
	s.emailRoutes()

	s.engine.GET("/dashboard/:resource", func(c *gin.Context) {
		s.mu.Lock()
		slice, ok := s.dashboard[c.Param("resource")]
		s.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown resource"})
			return
		}
		c.JSON(http.StatusOK, slice)
	})

	s.engine.GET("/stream", s.streamHandler)
}

func (s *Server) crmRoutes() {
	s.engine.GET("/leads", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.JSON(http.StatusOK, s.leads)
	})

	s.engine.POST("/leads", func(c *gin.Context) {
		var lead struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Company string `json:"company"`
			Source  string `json:"source"`
		}
		if err := c.ShouldBindJSON(&lead); err != nil || lead.Name == "" || lead.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
			return
		}

		s.mu.Lock()
		created := gin.H{
			"id":      "lead_" + strconv.Itoa(s.nextLeadID),
			"name":    lead.Name,
			"email":   lead.Email,
			"company": lead.Company,
			"stage":   "new",
			"source":  lead.Source,
			"score":   50,
		}
		s.nextLeadID++
		s.leads = append(s.leads, created)
		s.mu.Unlock()

		c.JSON(http.StatusOK, created)
	})

	s.engine.PATCH("/leads/:id/stage", func(c *gin.Context) {
		var body struct {
			Stage string `json:"stage"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Stage == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stage is required"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, lead := range s.leads {
			if lead["id"] == c.Param("id") {
				lead["stage"] = body.Stage
				c.JSON(http.StatusOK, lead)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
	})
}

func (s *Server) emailRoutes() {
	s.engine.GET("/emails", func(c *gin.Context) {
		filter := c.Query("filter")

		s.mu.Lock()
		defer s.mu.Unlock()
		limit := len(s.emails)
		if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
			limit = l
		}
		result := make([]gin.H, 0, limit)
		for _, email := range s.emails {
			if filter == "unread" && email["unread"] != true {
				continue
			}
			result = append(result, email)
			if len(result) >= limit {
				break
			}
		}
		c.JSON(http.StatusOK, result)
	})

	s.engine.GET("/emails/:id/attachments", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"id": "att_1", "filename": "estimate.pdf", "mime_type": "application/pdf", "size": int64(48213)},
		})
	})

	s.engine.POST("/emails/:id/archive", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, email := range s.emails {
			if email["id"] == c.Param("id") {
				s.emails = append(s.emails[:i], s.emails[i+1:]...)
				c.JSON(http.StatusOK, gin.H{"archived": true})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
	})

	s.engine.POST("/emails/send", func(c *gin.Context) {
		var email struct {
			To      string `json:"to"`
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		if err := c.ShouldBindJSON(&email); err != nil || email.To == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient is required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": true})
	})
}
