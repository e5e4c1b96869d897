package model

type ViewMode string

const (
	// ViewModeOpenMultiple counts anybody, any number of times; counters
	// live only in the cache layer and reset with it.
	ViewModeOpenMultiple ViewMode = "open_multiple"
	// ViewModeAuthenticatedOnce counts each authenticated viewer once,
	// backed by a durable view-log table.
	ViewModeAuthenticatedOnce ViewMode = "authenticated_once"
)

// IPLog is one (timestamp, origin address) entry of a post's ip log.
type IPLog struct {
	Timestamp int64  `json:"timestamp"`
	IP        string `json:"ip"`
}

type Post struct {
	ID            string      `json:"id"`
	Slug          string      `json:"slug"`
	Content       string      `json:"content"`
	Password      string      `json:"password"`
	DatePublished int64       `json:"date_published"`
	DateEdited    int64       `json:"date_edited"`
	Context       PostContext `json:"context"`
	IPs           []IPLog     `json:"ips"`
}

// PostContext is the structured metadata blob attached to every post.
type PostContext struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ThemeColor  string `json:"theme_color"`
	Favicon     string `json:"favicon"`
	// ViewPassword gates reading; compared in plaintext by the
	// presentation layer, unlike the hashed edit password.
	ViewPassword string `json:"view_password"`
	Owner        string `json:"owner"`
	// Template is "" for a standalone post, "@" if the post itself is a
	// template, otherwise the slug of the template it was cloned from.
	Template string `json:"template"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// TemplateContext returns the context a clone of the given post starts with:
// everything default except the template linkage back to the source.
func TemplateContext(source *Post) PostContext {
	return PostContext{
		Template: source.Slug,
	}
}

// PublicPost is the projection of a Post safe to return to readers: no id,
// no password hash, no ip log.
type PublicPost struct {
	Slug          string      `json:"slug"`
	Content       string      `json:"content"`
	DatePublished int64       `json:"date_published"`
	DateEdited    int64       `json:"date_edited"`
	Context       PostContext `json:"context"`
}

func (p *Post) Public() PublicPost {
	return PublicPost{
		Slug:          p.Slug,
		Content:       p.Content,
		DatePublished: p.DatePublished,
		DateEdited:    p.DateEdited,
		Context:       p.Context,
	}
}
