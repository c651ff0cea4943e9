package httpapi

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dashboardRecentLimit = 10

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Limen - Smart Door Lock</title>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<style>
		body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; padding: 20px; background: #f4f5f7; color: #333; }
		.container { max-width: 900px; margin: 0 auto; }
		.card { background: #fff; padding: 20px; margin: 16px 0; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
		.stats { display: flex; gap: 16px; }
		.stat { flex: 1; text-align: center; padding: 12px; }
		.stat-number { font-size: 2.2em; font-weight: 700; color: #007bff; }
		.stat-label { font-size: 13px; color: #666; text-transform: uppercase; }
		.log-entry { padding: 10px; margin: 4px 0; border-radius: 6px; background: #f8f9fa; border-left: 4px solid #adb5bd; }
		.granted { border-left-color: #28a745; background: #e9f7ec; }
		.denied { border-left-color: #dc3545; background: #fbecec; }
		input, button { padding: 10px; margin: 6px 0; border-radius: 6px; border: 1px solid #ccc; font-size: 14px; }
		button { background: #007bff; color: #fff; border: none; cursor: pointer; }
	</style>
</head>
<body>
<div class="container">
	<h1>Limen Door Lock</h1>
	<div class="card stats">
		<div class="stat"><div class="stat-number">{{.PeopleCount}}</div><div class="stat-label">Authorized people</div></div>
		<div class="stat"><div class="stat-number">{{.EventCount}}</div><div class="stat-label">Access events</div></div>
	</div>
	<div class="card">
		<h3>Enroll a person</h3>
		<form action="/api/people" method="post" enctype="multipart/form-data">
			<input type="text" name="name" placeholder="Name" required>
			<input type="file" name="photo" accept="image/*" required>
			<button type="submit">Enroll</button>
		</form>
	</div>
	<div class="card">
		<h3>Check access</h3>
		<form action="/api/access/check" method="post" enctype="multipart/form-data">
			<input type="file" name="photo" accept="image/*" required>
			<button type="submit">Check photo</button>
		</form>
		<form action="/api/access/check-camera" method="post">
			<button type="submit">Check via camera</button>
		</form>
	</div>
	<div class="card">
		<h3>Recent activity</h3>
		{{range .Events}}
		<div class="log-entry {{if .Granted}}granted{{else}}denied{{end}}">
			<strong>{{.Time}}</strong> {{.Description}}{{if .Confidence}} ({{.Confidence}}){{end}}
		</div>
		{{else}}
		<p>No events yet.</p>
		{{end}}
	</div>
</div>
</body>
</html>
`))

type dashboardEvent struct {
	Time        string
	Description string
	Confidence  string
	Granted     bool
}

type dashboardData struct {
	PeopleCount int
	EventCount  int
	Events      []dashboardEvent
}

func (s *Server) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	people, eventCount, err := s.access.Counts(ctx)
	if err != nil {
		s.logger.Error("dashboard counts failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "unexpected server error")
		return
	}

	recent, err := s.access.RecentEvents(ctx, dashboardRecentLimit)
	if err != nil {
		s.logger.Error("dashboard events failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "unexpected server error")
		return
	}

	data := dashboardData{
		PeopleCount: people,
		EventCount:  eventCount,
	}
	for _, ev := range recent {
		row := dashboardEvent{
			Time:        ev.Timestamp.Format("01-02 15:04:05"),
			Description: ev.Description,
			Granted:     ev.Granted,
		}
		if ev.Confidence != nil {
			row.Confidence = fmt.Sprintf("%.0f%%", *ev.Confidence*100)
		}
		data.Events = append(data.Events, row)
	}

	c.HTML(http.StatusOK, "dashboard", data)
}
