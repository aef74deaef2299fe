package render

// TextStyle is the font treatment for one kind of line in the PDF.
type TextStyle struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
	Color  RGB
}

// RGB is a text or rule colour.
type RGB struct{ R, G, B int }

var (
	accent = RGB{37, 99, 235}
	ink    = RGB{34, 34, 59}
	body   = RGB{55, 65, 81}
	muted  = RGB{107, 114, 128}
	rule   = RGB{229, 231, 235}
)

const fontFamily = "Helvetica"

// StyleMap centralizes the formatting of each resume element.
var StyleMap = map[string]TextStyle{
	"name":           {Family: fontFamily, Style: "B", Size: 24, Color: accent},
	"contact":        {Family: fontFamily, Size: 10, Color: muted},
	"sectionHeading": {Family: fontFamily, Style: "B", Size: 13, Color: ink},
	"title":          {Family: fontFamily, Style: "B", Size: 11.5, Color: accent},
	"subtitle":       {Family: fontFamily, Size: 10.5, Color: body},
	"meta":           {Family: fontFamily, Style: "I", Size: 9.5, Color: muted},
	"body":           {Family: fontFamily, Size: 10.5, Color: body},
}

const (
	pageMargin = 18.0
	lineHeight = 5.2
)
