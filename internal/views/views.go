// Package views renders the htmx page and its fragments from embedded templates.
package views

import (
	"embed"
	"html/template"
	"net/url"
	"time"

	"gtd-web/internal/models"
	"gtd-web/internal/schedule"
	"gtd-web/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template names, as passed to gin's c.HTML.
const (
	PageIndex       = "index.html"
	PageLogin       = "login.html"
	FragmentList    = "task_list"
	FragmentItem    = "task_item"
	FragmentEdit    = "edit_form"
	FragmentSidebar = "sidebar"
	FragmentError   = "error"
	FragmentOptions = "project_options"
)

// Load parses every template with the shared func map.
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templatesFS, "templates/*.html")
}

// MustLoad is Load for package-level setup; it panics on a broken template.
func MustLoad() *template.Template {
	return template.Must(Load())
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"label":     schedule.DateLabel,
		"toneClass": toneClass,
		"dateValue": dateValue,
		"deref":     deref,
		"schedule":  scheduleValue,
		"query":     url.QueryEscape,
		"item": func(l List, t models.Task) Item {
			return Item{Task: t, Today: l.Today, View: l.View, Project: l.Project}
		},
		"nav": func(s Sidebar, view, label string, count int) NavLink {
			v := service.View(view)
			return NavLink{View: v, Label: label, Count: count, Active: s.View == v}
		},
		"schedules": func() []models.Schedule {
			return []models.Schedule{
				models.ScheduleNone, models.ScheduleToday, models.ScheduleWeek,
				models.ScheduleMonth, models.ScheduleMaybe,
			}
		},
	}
}

// List is the task list of one view.
type List struct {
	Title   string
	View    service.View
	Project string
	Today   time.Time
	Tasks   []models.Task
}

// Item is one row of a list. View and Project say which list to re-render after a toggle.
type Item struct {
	Task    models.Task
	Today   time.Time
	View    service.View
	Project string
}

type Sidebar struct {
	Counts  service.Counts
	View    service.View
	Project string
}

// NavLink is one view entry of the sidebar.
type NavLink struct {
	View   service.View
	Label  string
	Count  int
	Active bool
}

// EditForm carries the list the task was opened from, so the saved row keeps working in it.
type EditForm struct {
	Task    models.Task
	View    service.View
	Project string
}

type Page struct {
	List        List
	Sidebar     Sidebar
	Options     Options
	AuthEnabled bool
	Username    string
}

type Login struct {
	Error string
}

type Flash struct {
	Message string
}

type Options struct {
	Projects []string
}

func toneClass(t schedule.Tone) string {
	switch t {
	case schedule.ToneToday:
		return "text-red-600"
	case schedule.ToneOverdue:
		return "text-red-800 font-bold"
	case schedule.ToneSoon:
		return "text-orange-600"
	default:
		return "text-gray-500"
	}
}

func dateValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(schedule.DateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func scheduleValue(s *models.Schedule) string {
	if s == nil {
		return string(models.ScheduleNone)
	}
	return string(*s)
}
