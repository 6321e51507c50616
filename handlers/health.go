package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/XAdnanAhmedX/JusticeHammer/db"
)

// Health probes both datastores with a trivial query and reports plaintext
// per-datastore results: 200 only when both respond, 503 otherwise. Failure
// detail is logged server-side, not echoed.
func (h *Handler) Health(c echo.Context) error {
	primaryOK := true
	if err := db.Ping(h.db); err != nil {
		primaryOK = false
		log.Printf("[HEALTH] Primary database check failed: %v", err)
	}

	analyticsOK := true
	if err := db.Ping(h.analytics); err != nil {
		analyticsOK = false
		log.Printf("[HEALTH] Analytics database check failed: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Primary DB: %s\n", connectivity(primaryOK))
	fmt.Fprintf(&b, "Analytics DB: %s\n", connectivity(analyticsOK))

	if primaryOK && analyticsOK {
		b.WriteString("\nAll systems operational\n")
		return c.String(http.StatusOK, b.String())
	}
	b.WriteString("\nOne or more database connections failed\n")
	return c.String(http.StatusServiceUnavailable, b.String())
}

func connectivity(ok bool) string {
	if ok {
		return "Connected"
	}
	return "Failed"
}
