// Package reclassify maps pre-2012 statutory citations onto their current
// U.S. Code locations. The Federal Election Campaign Act was editorially
// reclassified from title 2 to title 52, but source rows still carry the old
// section numbers.
package reclassify

// pre2012 maps old title-2 sections to their title-52 successors.
var pre2012 = map[string]string{
	"431":    "30101",
	"432":    "30102",
	"433":    "30103",
	"434":    "30104",
	"437":    "30105",
	"437c":   "30106",
	"437d":   "30107",
	"437f":   "30108",
	"437g":   "30109",
	"437h":   "30110",
	"438":    "30111",
	"438a":   "30112",
	"439":    "30113",
	"439a":   "30114",
	"439c":   "30115",
	"441a":   "30116",
	"441a-1": "30117",
	"441b":   "30118",
	"441c":   "30119",
	"441d":   "30120",
	"441e":   "30121",
	"441f":   "30122",
	"441g":   "30123",
	"441h":   "30124",
	"441i":   "30125",
}

// Pre2012Citation resolves an old (title, section) pair to its current
// location. Titles other than 2 and unknown sections pass through unchanged.
func Pre2012Citation(title, section string) (string, string) {
	if title != "2" {
		return title, section
	}
	if current, ok := pre2012[section]; ok {
		return "52", current
	}
	return title, section
}
