package narration

import (
	"fmt"
	"strings"

	"github.com/teslashibe/lenslab/pkg/optics"
)

// Language is a BCP 47 tag used for both the text catalog and speech.
type Language string

const (
	Chinese Language = "zh-CN"
	English Language = "en-US"

	DefaultLanguage = Chinese
)

// ParseLanguage accepts a language tag case-insensitively. Bare "zh" and
// "en" map to the regional defaults.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-cn":
		return Chinese, nil
	case "en", "en-us":
		return English, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Entry is what the lab says about one zone.
type Entry struct {
	// Text is spoken and shown as the subtitle during autoplay.
	Text string `json:"text"`

	// Summary is the short rule line shown in the info panel.
	Summary string `json:"summary"`
}

// Catalog holds the fixed narration for every zone in one language.
type Catalog struct {
	Language Language
	Rate     float64
	entries  map[optics.Zone]Entry
}

// Text returns the narration for zone, or "" for ZoneNone.
func (c *Catalog) Text(zone optics.Zone) string {
	return c.entries[zone].Text
}

// Summary returns the info-panel rule for zone.
func (c *Catalog) Summary(zone optics.Zone) string {
	return c.entries[zone].Summary
}

// Entry returns the full entry for zone.
func (c *Catalog) Entry(zone optics.Zone) (Entry, bool) {
	e, ok := c.entries[zone]
	return e, ok
}

var catalogs = map[Language]*Catalog{
	Chinese: {
		Language: Chinese,
		Rate:     0.9,
		entries: map[optics.Zone]Entry{
			optics.ZoneConcaveAll: {
				Text:    "现在演示凹透镜成像。凹透镜对光线具有发散作用。请注意观察，无论物体距离透镜多远，始终在透镜同侧形成正立、缩小的虚像。",
				Summary: "凹透镜：始终成正立、缩小的虚像。",
			},
			optics.ZoneBeyond2F: {
				Text:    "当物距大于二倍焦距时，凸透镜成倒立、缩小的实像。这一原理被广泛应用于照相机和摄像机中。",
				Summary: "u > 2f：倒立、缩小的实像（照相机）。",
			},
			optics.ZoneAt2F: {
				Text:    "当物距等于二倍焦距时，像距也等于二倍焦距。此时，凸透镜成倒立、等大的实像。这是测量焦距的重要方法。",
				Summary: "u = 2f：倒立、等大的实像（测焦距）。",
			},
			optics.ZoneBetween: {
				Text:    "当物距处于一倍焦距和二倍焦距之间时，凸透镜成倒立、放大的实像。投影仪和幻灯机就是利用这一原理制成的。",
				Summary: "f < u < 2f：倒立、放大的实像（投影仪）。",
			},
			optics.ZoneAtF: {
				Text:    "当物距等于一倍焦距时，折射光线平行射出，不能成像。此处是实像与虚像的分界点。",
				Summary: "u = f：不成像（获得平行光）。",
			},
			optics.ZoneInsideF: {
				Text:    "当物距小于一倍焦距时，凸透镜成正立、放大的虚像。我们需要透过透镜观察。放大镜就是利用这一原理工作的。",
				Summary: "u < f：正立、放大的虚像（放大镜）。",
			},
		},
	},
	English: {
		Language: English,
		Rate:     1.0,
		entries: map[optics.Zone]Entry{
			optics.ZoneConcaveAll: {
				Text:    "Now we look at a concave lens. A concave lens spreads light apart. Notice that wherever the object stands, the lens always forms an upright, diminished virtual image on the same side.",
				Summary: "Concave lens: always an upright, diminished virtual image.",
			},
			optics.ZoneBeyond2F: {
				Text:    "When the object is beyond twice the focal length, a convex lens forms an inverted, diminished real image. Cameras and video cameras work on this principle.",
				Summary: "u > 2f: inverted, diminished real image (camera).",
			},
			optics.ZoneAt2F: {
				Text:    "When the object is at exactly twice the focal length, the image is also at twice the focal length. The lens forms an inverted real image of the same size. This is a common way to measure focal length.",
				Summary: "u = 2f: inverted real image of equal size (measuring f).",
			},
			optics.ZoneBetween: {
				Text:    "When the object is between one and two focal lengths, a convex lens forms an inverted, magnified real image. Projectors and slide projectors are built on this principle.",
				Summary: "f < u < 2f: inverted, magnified real image (projector).",
			},
			optics.ZoneAtF: {
				Text:    "When the object is at the focal point, the refracted rays leave parallel and no image forms. This is the boundary between real and virtual images.",
				Summary: "u = f: no image, the rays leave parallel.",
			},
			optics.ZoneInsideF: {
				Text:    "When the object is inside the focal length, a convex lens forms an upright, magnified virtual image. We have to look through the lens to see it. A magnifying glass works this way.",
				Summary: "u < f: upright, magnified virtual image (magnifier).",
			},
		},
	},
}

// CatalogFor returns the built-in catalog for lang.
func CatalogFor(lang Language) (*Catalog, error) {
	c, ok := catalogs[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return c, nil
}

// MustCatalog is like CatalogFor but panics on an unknown language.
func MustCatalog(lang Language) *Catalog {
	c, err := CatalogFor(lang)
	if err != nil {
		panic(err)
	}
	return c
}

// Languages lists the built-in catalogs, default first.
func Languages() []Language {
	return []Language{Chinese, English}
}
