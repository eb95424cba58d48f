package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/property-maintenance/internal/models"
)

// Scripted complaint templates per category. Descriptions deliberately carry
// the phrasing tenants actually use so the triage keywords fire.
var complaints = map[models.ServiceCategory][]struct {
	Title       string
	Description string
}{
	models.CategoryPlumbing: {
		{"Leaking kitchen sink", "The kitchen sink is leaking under the cabinet, water everywhere"},
		{"Burst pipe in bathroom", "There is a major leak from the pipe behind the toilet"},
		{"Clogged shower drain", "The shower drain backs up every morning"},
	},
	models.CategoryElectrical: {
		{"Outlet sparking", "The outlet in the living room sparks when I plug anything in"},
		{"No power in bedroom", "Half the bedroom has no power since last night"},
		{"Flickering lights", "Hallway lights flicker constantly"},
	},
	models.CategoryHVAC: {
		{"AC not cooling", "The AC runs but is not cooling, the apartment never gets cold"},
		{"Furnace making noise", "Loud banging noise from the furnace when heating starts"},
	},
	models.CategoryAppliance: {
		{"Dishwasher not draining", "The dishwasher finishes but leaves standing water"},
		{"Fridge too warm", "The refrigerator does not keep food cold anymore"},
	},
	models.CategoryGeneral: {
		{"Broken window latch", "The bedroom window latch snapped and will not lock"},
		{"Squeaky front door", "Front door hinges squeak badly and the door sticks"},
	},
}

var properties = []string{
	"Sunset Apartments",
	"Riverview Heights",
	"Maple Court",
	"Harbor Point",
}

var tenants = []models.TenantContact{
	{Name: "Jordan Reyes", Phone: "555-0142", Email: "jordan@example.com"},
	{Name: "Sam Okafor", Phone: "555-0178", Email: "sam@example.com"},
	{Name: "Priya Nair", Phone: "555-0190", Email: "priya@example.com"},
	{Name: "Lena Fischer", Phone: "555-0113", Email: "lena@example.com"},
}

var categories = []models.ServiceCategory{
	models.CategoryPlumbing,
	models.CategoryElectrical,
	models.CategoryHVAC,
	models.CategoryAppliance,
	models.CategoryGeneral,
}

var priorities = []models.RequestPriority{
	models.PriorityLow,
	models.PriorityMedium,
	models.PriorityHigh,
	models.PriorityCritical,
}

var authToken string

func randomDraft() models.RequestDraft {
	category := categories[rand.Intn(len(categories))]
	complaint := complaints[category][rand.Intn(len(complaints[category]))]
	tenant := tenants[rand.Intn(len(tenants))]

	return models.RequestDraft{
		Property:    properties[rand.Intn(len(properties))],
		Unit:        fmt.Sprintf("%d%c", 1+rand.Intn(6), 'A'+rune(rand.Intn(4))),
		Tenant:      tenant,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    category,
		Priority:    priorities[rand.Intn(len(priorities))],
		SubmittedBy: tenant.Name,
	}
}

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func sendRequest(apiURL string, draft models.RequestDraft) {
	data, err := json.Marshal(draft)
	if err != nil {
		log.WithError(err).Error("Failed to marshal request")
		return
	}
	resp, err := authorizedPost(apiURL+"/requests", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to send request")
		return
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"property": draft.Property,
		"category": draft.Category,
		"title":    draft.Title,
		"status":   resp.Status,
	}).Info("Submitted maintenance request")
}

func simulateTenant(apiURL string, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		sendRequest(apiURL, randomDraft())
	}
}

func main() {
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	tenantCount := 3
	if val := os.Getenv("SIM_TENANTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			tenantCount = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 5 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"tenants":  tenantCount,
		"api_url":  apiURL,
		"interval": interval,
	}).Info("Starting maintenance request simulation")

	for i := 0; i < tenantCount; i++ {
		go simulateTenant(apiURL, interval)
	}

	select {} // Block forever
}
