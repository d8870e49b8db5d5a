package web

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tableview/internal/dataset"
)

const htmxSrc = "https://unpkg.com/htmx.org@1.9.12"

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2933}
table{border-collapse:collapse;width:100%}th,td{border-bottom:1px solid #d9e2ec;padding:.4rem .6rem;text-align:left}
th{cursor:pointer;background:#f0f4f8}tbody tr{cursor:pointer}tr.selected{background:#fff3c4}
.pager{margin-top:.8rem;display:flex;gap:.3rem}.pager .current{font-weight:bold}
.filters{display:flex;flex-wrap:wrap;gap:.6rem;margin-bottom:.8rem}.alert{padding:.6rem;background:#ffe3e3;border:1px solid #ffa8a8}
.summary{color:#627d98}`

// layout wraps body in the page shell.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.raw(`</title><script`)
		h.attr("src", htmxSrc)
		h.raw(`></script><style>` + pageStyle + `</style></head><body><div id="alerts"></div>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw("</body></html>")
		return h.err
	})
}

// dashboardPage lists the registered datasets by group, each with a button
// that opens a new view.
func dashboardPage(groups []string, datasets []dataset.Dataset) templ.Component {
	return layout("Datasets", component(func(h *htmlWriter) {
		h.raw("<h1>Datasets</h1>")
		if len(datasets) == 0 {
			h.raw(`<p class="summary">No datasets loaded.</p>`)
			return
		}
		for _, group := range groups {
			if group != "" {
				h.raw("<h2>")
				h.text(group)
				h.raw("</h2>")
			}
			h.raw("<ul>")
			for _, ds := range datasets {
				if ds.Group != group {
					continue
				}
				h.raw("<li><form method=\"post\"")
				h.attr("action", "/datasets/"+ds.Key+"/views")
				h.raw("><button type=\"submit\">")
				h.text(ds.Label)
				h.raw("</button> <span class=\"summary\">")
				h.text(strconv.Itoa(ds.Len()) + " records, " + strconv.Itoa(len(ds.Columns)) + " columns")
				h.raw("</span></form></li>")
			}
			h.raw("</ul>")
		}
	}))
}

// viewPage is the full page around a table partial.
func viewPage(title string, table templ.Component) templ.Component {
	return layout(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p><a href="/">&larr; Datasets</a></p><h1>`)
		h.text(title)
		h.raw("</h1>")
		if h.err != nil {
			return h.err
		}
		return table.Render(ctx, w)
	}))
}

// errorAlert is the htmx fragment for a failed request. It is swapped into
// #alerts out of band so the table stays in place.
func errorAlert(msg UserMessage) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div id="alerts" hx-swap-oob="true"><div class="alert" role="alert"><strong>`)
		h.text(msg.Message)
		h.raw("</strong> ")
		h.text(msg.Action)
		h.raw(` <span class="summary">(`)
		h.text(msg.Code)
		h.raw(")</span></div></div>")
	})
}
