// Package pages holds the templ components for every full page and htmx
// fragment the app renders. View models here are plain structs so the
// package stays free of plugin imports; handlers convert their domain types
// before rendering.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/layouts"
)

// DestinationCard is the view model for one destination tile on the home
// page. Clicking a card deep-links into the chat with the city pre-filled.
type DestinationCard struct {
	Name    string
	Slug    string
	Tagline string
}

// heroTaglines rotate beneath the headline, one at a time.
var heroTaglines = []string{
	"Ancient medinas",
	"Breathtaking landscapes",
	"Rich cultural heritage",
	"Unforgettable adventures",
}

// Home renders the landing page: hero banner, interactive map, and the
// destination cards.
func Home(cards []DestinationCard) templ.Component {
	return layouts.Base("Discover Morocco", homeContent(cards))
}

func homeContent(cards []DestinationCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<section class="hero">
<div class="hero-overlay"></div>
<div class="hero-content">
<h1>Discover Morocco like never before</h1>
<span class="hero-tagline" id="hero-tagline" data-taglines="`); err != nil {
			return err
		}
		for i, tagline := range heroTaglines {
			if i > 0 {
				if _, err := io.WriteString(w, "|"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, templ.EscapeString(tagline)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `">`+templ.EscapeString(heroTaglines[0])+`</span>
<a class="cta" href="/chat">Chat with our Guide &rarr;</a>
</div>
</section>
<section class="map-section">
<div class="section-title">
<h2>Journey Through Morocco</h2>
<p class="section-quote">&ldquo;The world is a book and those who do not travel read only one page&rdquo;</p>
</div>
<div id="map" class="map-frame"></div>
<p class="map-hint">Click on destinations to learn more or ask our guide about them</p>
</section>
<section class="destinations">
`); err != nil {
			return err
		}

		for _, card := range cards {
			if _, err := fmt.Fprintf(w, `<a class="destination-card" href="/chat?city=%s">
<h4>%s</h4>
<p>%s</p>
</a>
`, templ.EscapeString(card.Slug), templ.EscapeString(card.Name), templ.EscapeString(card.Tagline)); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</section>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js" defer></script>
<script src="/static/js/map.js" defer></script>
`); err != nil {
			return err
		}

		return nil
	})
}
