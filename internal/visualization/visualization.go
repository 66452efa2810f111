package visualization

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Kaitokidbua/worktime-codex/internal/export"
	"github.com/Kaitokidbua/worktime-codex/internal/summary"
	"github.com/Kaitokidbua/worktime-codex/internal/tracker"
	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

type Visualizer struct{}

func New() *Visualizer {
	return &Visualizer{}
}

func standardHours(h float64) float64 {
	if h <= 0 {
		return work.DefaultStandardShiftHours
	}
	return h
}

// GenerateWeekSVG draws one employee's worked hours for Monday to Sunday
// with a line at the standard shift length.
func (v *Visualizer) GenerateWeekSVG(progress *tracker.WeekProgress) string {
	width := 600
	height := 300
	padding := 40
	barWidth := float64((width - 2*padding) / 7)
	maxHours := 16.0 // Max hours per day to display
	chartHeight := float64(height - 2*padding)
	standard := standardHours(progress.StandardHours)

	var days []string
	var hours []float64
	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	for i := 0; i < 7; i++ {
		day := progress.WeekStart.AddDate(0, 0, i)
		dayKey := day.Format("2006-01-02")
		days = append(days, dayNames[i])
		hours = append(hours, progress.DaysWorked[dayKey])
	}

	var bars strings.Builder
	for i, h := range hours {
		barHeight := (h / maxHours) * chartHeight
		if barHeight > chartHeight {
			barHeight = chartHeight
		}

		x := float64(padding) + float64(i)*barWidth + 5
		y := float64(height) - float64(padding) - barHeight

		color := "#4CAF50"
		if h > standard {
			color = "#FF9800"
		}
		if h > 12 {
			color = "#F44336"
		}

		bars.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s" rx="4"/>
    <text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="#333">%.1fh</text>`,
			x, y, barWidth-10, barHeight, color,
			x+barWidth/2-5, int(y)-5, h))
	}

	standardY := float64(height) - float64(padding) - (standard/maxHours)*chartHeight
	who := progress.EmployeeID
	if progress.Name != "" {
		who = fmt.Sprintf("%s (%s)", progress.Name, progress.EmployeeID)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <defs>
    <linearGradient id="bgGrad" x1="0%%" y1="0%%" x2="0%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#f5f7fa"/>
      <stop offset="100%%" style="stop-color:#e4e8ec"/>
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#bgGrad)" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50">Weekly Attendance: %s</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="#7f8c8d">%s - %s | Worked: %.1fh | Overtime: %.1fh</text>

  <!-- Standard shift line -->
  <line x1="%d" y1="%.0f" x2="%d" y2="%.0f" stroke="#E74C3C" stroke-width="2" stroke-dasharray="5,5"/>
  <text x="%d" y="%.0f" font-size="10" fill="#E74C3C">%.1fh shift</text>

  <!-- Bars -->
  %s

  <!-- X-axis labels -->
  %s

  <!-- Grid lines -->
  %s
</svg>`,
		width, height, width, height,
		width, height,
		width/2, html.EscapeString(who),
		width/2, progress.WeekStart.Format("Jan 2"), progress.WeekEnd.Format("Jan 2"), progress.TotalHours, progress.OvertimeHours,
		padding, standardY, width-padding, standardY,
		width-padding-45, standardY-5, standard,
		bars.String(),
		v.generateXLabels(days, float64(padding), barWidth, float64(height-padding)),
		v.generateGridLines(height, padding, width),
	)
}

// GeneratePeriodSVG draws one stacked bar (regular + overtime) per summary.
func (v *Visualizer) GeneratePeriodSVG(title string, summaries []summary.PeriodSummary) string {
	padding := 50
	cellSize := 70.0
	width := padding*2 + int(cellSize)*max(len(summaries), 4)
	height := 400
	chartHeight := float64(height - 2*padding - 30)

	maxHours := 0.0
	for _, s := range summaries {
		if s.TotalWorkedHours > maxHours {
			maxHours = s.TotalWorkedHours
		}
	}
	if maxHours == 0 {
		maxHours = 1
	}

	var bars strings.Builder
	for i, s := range summaries {
		regular := s.TotalRegularHours / maxHours * chartHeight
		overtime := s.TotalOvertimeHours / maxHours * chartHeight
		x := float64(padding) + float64(i)*cellSize + 10
		base := float64(height - padding)

		bars.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="#3498DB" rx="2"/>
    <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="#FF9800" rx="2"/>
    <text x="%.0f" y="%.0f" text-anchor="middle" font-size="11" fill="#333">%.1fh</text>
    <text x="%.0f" y="%d" text-anchor="middle" font-size="10" fill="#7f8c8d">%s</text>
    <text x="%.0f" y="%d" text-anchor="middle" font-size="9" fill="#7f8c8d">%s</text>`,
			x, base-regular, cellSize-20, regular,
			x, base-regular-overtime, cellSize-20, overtime,
			x+cellSize/2-10, base-regular-overtime-5, s.TotalWorkedHours,
			x+cellSize/2-10, height-padding+15, html.EscapeString(s.EmployeeID),
			x+cellSize/2-10, height-padding+28, html.EscapeString(s.PeriodKey)))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <rect width="%d" height="%d" fill="#f5f7fa" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50">%s</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="#7f8c8d"><tspan fill="#3498DB">regular</tspan> / <tspan fill="#FF9800">overtime</tspan></text>

  <!-- Bars -->
  %s
</svg>`,
		width, height, width, height,
		width, height,
		width/2, html.EscapeString(title),
		width/2,
		bars.String(),
	)
}

// GenerateHTMLReport renders period summaries as a standalone HTML page.
func (v *Visualizer) GenerateHTMLReport(title string, summaries []summary.PeriodSummary, generated time.Time) string {
	var regular, overtime float64
	employees := make(map[string]struct{})
	for _, s := range summaries {
		regular += s.TotalRegularHours
		overtime += s.TotalOvertimeHours
		employees[s.EmployeeID] = struct{}{}
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>%s</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 40px; background: #f5f7fa; }
    .container { max-width: 960px; margin: 0 auto; }
    .card { background: white; border-radius: 10px; padding: 24px; margin-bottom: 20px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
    h1 { color: #2c3e50; margin-bottom: 8px; }
    h2 { color: #34495e; font-size: 18px; margin-bottom: 16px; }
    .subtitle { color: #7f8c8d; margin-bottom: 30px; }
    .stat { display: inline-block; text-align: center; padding: 20px; margin: 10px; background: #f8f9fa; border-radius: 8px; min-width: 120px; }
    .stat-value { font-size: 32px; font-weight: bold; color: #3498DB; }
    .stat-label { font-size: 12px; color: #7f8c8d; margin-top: 4px; }
    table { width: 100%%; border-collapse: collapse; margin-top: 16px; }
    th, td { padding: 12px; text-align: left; border-bottom: 1px solid #eee; }
    th { color: #7f8c8d; font-weight: 500; }
    td.num { text-align: right; }
  </style>
</head>
<body>
  <div class="container">
    <h1>%s</h1>
    <p class="subtitle">Generated on %s</p>

    <div class="card">
      <div class="stat">
        <div class="stat-value">%s</div>
        <div class="stat-label">Regular Hours</div>
      </div>
      <div class="stat">
        <div class="stat-value">%s</div>
        <div class="stat-label">Overtime Hours</div>
      </div>
      <div class="stat">
        <div class="stat-value">%d</div>
        <div class="stat-label">Employees</div>
      </div>
    </div>

    <div class="card">
      <h2>Period Breakdown</h2>
      <table>
        <tr><th>Period</th><th>Employee</th><th>Name</th><th>Regular</th><th>Overtime</th><th>Worked</th><th>Days</th></tr>
        %s
      </table>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(title),
		html.EscapeString(title),
		generated.Format("Monday, January 2, 2006"),
		export.Hours(regular),
		export.Hours(overtime),
		len(employees),
		v.formatSummaryRows(summaries),
	)
}

func (v *Visualizer) formatSummaryRows(summaries []summary.PeriodSummary) string {
	if len(summaries) == 0 {
		return `<tr><td colspan="7">No records</td></tr>`
	}

	rows := make([]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, fmt.Sprintf(
			`<tr><td>%s</td><td>%s</td><td>%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%d</td></tr>`,
			html.EscapeString(s.PeriodKey), html.EscapeString(s.EmployeeID), html.EscapeString(s.Name),
			export.Hours(s.TotalRegularHours), export.Hours(s.TotalOvertimeHours),
			export.Hours(s.TotalWorkedHours), s.DaysPresent))
	}
	return strings.Join(rows, "\n        ")
}

func (v *Visualizer) generateXLabels(days []string, padding float64, barWidth float64, y float64) string {
	var labels strings.Builder
	for i, day := range days {
		x := padding + float64(i)*barWidth + barWidth/2 - 5
		labels.WriteString(fmt.Sprintf(`<text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="#7f8c8d">%s</text>`,
			x, int(y)+20, day))
	}
	return labels.String()
}

func (v *Visualizer) generateGridLines(height int, padding int, width int) string {
	var lines strings.Builder
	for i := 1; i <= 4; i++ {
		y := float64(height) - float64(padding) - (float64(i)/4.0)*float64(height-2*padding)
		lines.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.0f" x2="%d" y2="%.0f" stroke="#E0E0E0"/>`,
			padding, y, width-padding, y))
	}
	return lines.String()
}
