package resolver

// Status describes how a single href was handled.
type Status int

const (
	// StatusPassThrough means no rewriting rule applied (external URL, anchor,
	// mailto/tel, or not a markdown reference).
	StatusPassThrough Status = iota

	// StatusRewritten means the href was turned into a canonical post URL.
	StatusRewritten

	// StatusUnresolved means the href looked like a markdown reference but no
	// strategy found the target file.
	StatusUnresolved

	// StatusInvalid means the href could not be processed at all,
	// e.g. malformed percent-encoding.
	StatusInvalid
)

// String returns the machine-readable name of the status.
func (s Status) String() string {
	switch s {
	case StatusPassThrough:
		return "passthrough"
	case StatusRewritten:
		return "rewritten"
	case StatusUnresolved:
		return "unresolved"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Label returns a short human-readable label.
func (s Status) Label() string {
	switch s {
	case StatusPassThrough:
		return "Skipped"
	case StatusRewritten:
		return "Rewritten"
	case StatusUnresolved:
		return "Unresolved"
	case StatusInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Description explains what the status means for the link.
func (s Status) Description() string {
	switch s {
	case StatusPassThrough:
		return "Not a local markdown reference; left as written"
	case StatusRewritten:
		return "Local markdown reference rewritten to its post URL"
	case StatusUnresolved:
		return "Target file not found; link left as written"
	case StatusInvalid:
		return "Href could not be decoded or resolved; link left as written"
	default:
		return ""
	}
}

// Pass-through reasons reported in Resolution.Reason.
const (
	ReasonExternal    = "external-url"
	ReasonAnchor      = "anchor"
	ReasonScheme      = "scheme"
	ReasonNotMarkdown = "not-markdown"
)

// Resolution is the detailed outcome of resolving one href.
// URL is always safe to publish: it is either the rewritten post URL or the
// original href.
type Resolution struct {
	Href     string // Href as written
	URL      string // Final URL
	Reason   string // Why the href passed through or failed (empty when rewritten)
	Target   string // Located markdown file, slash-separated (rewritten only)
	Slug     string // Frontmatter slug of the target, if any
	Strategy string // Strategy that located the target
	Status   Status
}

// Changed reports whether the resolved URL differs from the href.
func (r Resolution) Changed() bool {
	return r.URL != r.Href
}
