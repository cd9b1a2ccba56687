package biopage

import "sort"

// Visibility controls who can view a bio page.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// BioPage is a user-owned landing page aggregating outbound links
// and social profiles under a unique username.
type BioPage struct {
	ID          string
	Username    string
	OwnerID     string
	Title       string
	Description string
	Visibility  Visibility
	Theme       map[string]any
	BioLinks    []BioLink
	SocialLinks []SocialLink
	CreatedAt   int64
}

// BioLink is one outbound link on a bio page. Inactive links are
// excluded from rendering but retained for click history.
type BioLink struct {
	ID        string
	Title     string
	URL       string
	Icon      string
	SortOrder int
	IsActive  bool
}

// SocialLink is a social profile reference rendered on the page.
type SocialLink struct {
	ID       string
	Platform string
	URL      string
}

// ActiveLinks returns the page's active bio links in display order.
func (p *BioPage) ActiveLinks() []BioLink {
	links := make([]BioLink, 0, len(p.BioLinks))

	for _, l := range p.BioLinks {
		if l.IsActive {
			links = append(links, l)
		}
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].SortOrder < links[j].SortOrder
	})

	return links
}

// VisibleTo reports whether the viewer may see the page's content.
// Owners always see their own pages.
func (p *BioPage) VisibleTo(viewerID string) bool {
	if p.Visibility != VisibilityPrivate {
		return true
	}

	return viewerID != "" && viewerID == p.OwnerID
}
