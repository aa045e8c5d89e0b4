// The `videoPlaceholder` component replaces a video poster with the actual
// player when activated.  The element's `data-video-type` attribute selects
// the player (`sitecore` for a hosted MP4 file, `youtube` for an embedded
// YouTube player), and `data-url` holds the file URL or YouTube video ID.
package videoplaceholder

import (
	"context"
	"net/url"

	"github.com/mook/pagewire/components"
	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	loadedClass = "has-loaded"
	errorClass  = "has-error"
	objectClass = "responsive-video__object"

	errorMessage = "Sorry, there was an error loading this video"
)

// Configuration for the component.
type Configuration struct {
	// Origin passed to embedded YouTube players.
	Origin string `yaml:"origin"`
}

// Placeholder component
type Placeholder struct {
	config Configuration
	ui     components.UI
	loaded bool
}

func (p *Placeholder) IsSingleton() bool {
	return false
}

func (p *Placeholder) UI() components.UI {
	return p.ui
}

func (p *Placeholder) Initialize(ctx context.Context, element *html.Node) error {
	p.ui = components.UI{"el": {element}}
	return nil
}

// Loaded reports whether the player has been inserted.
func (p *Placeholder) Loaded() bool {
	return p.loaded
}

// Load inserts the video player, as clicking the placeholder would.  Only the
// first call has any effect, and nothing happens before initialization.
func (p *Placeholder) Load() {
	if p.loaded || len(p.ui["el"]) == 0 {
		return
	}
	el := p.ui["el"][0]
	videoType, _ := dom.Attr(el, "data-video-type")
	source, _ := dom.Attr(el, "data-url")

	wrapper := dom.Element(atom.Div, "class", "responsive-video")
	wrapper.AppendChild(p.player(videoType, source))
	el.AppendChild(wrapper)
	dom.AddClass(el, loadedClass)
	p.loaded = true
}

func (p *Placeholder) player(videoType, source string) *html.Node {
	switch videoType {
	case "sitecore":
		if source != "" {
			video := dom.Element(atom.Video, "class", objectClass, "autoplay", "", "controls", "")
			video.AppendChild(dom.Element(atom.Source, "src", source, "type", "video/mp4"))
			return video
		}
	case "youtube":
		if source != "" {
			return dom.Element(atom.Iframe,
				"class", objectClass,
				"type", "text/html",
				"src", p.youtubeURL(source),
				"frameborder", "0",
				"allowfullscreen", "allowfullscreen")
		}
	}
	dom.AddClass(p.ui["el"][0], errorClass)
	message := dom.Element(atom.P, "class", "responsive-video__error")
	message.AppendChild(dom.TextNode(errorMessage))
	return message
}

func (p *Placeholder) youtubeURL(videoID string) string {
	query := url.Values{"autoplay": {"1"}}
	if p.config.Origin != "" {
		query.Set("origin", p.config.Origin)
	}
	u := url.URL{
		Scheme:   "https",
		Host:     "www.youtube.com",
		Path:     "/embed/" + videoID,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// New creates a video placeholder.
func New(ctx context.Context, app *components.App, load func(any) error) (components.Component, error) {
	p := &Placeholder{}
	if err := load(&p.config); err != nil {
		return nil, err
	}
	return p, nil
}

func init() {
	components.Register("videoPlaceholder", New)
}
