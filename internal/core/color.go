package core

import "sort"

// ColorClasses is the pair of CSS utility classes the UI uses for a
// theme color.
type ColorClasses struct {
	Background string
	Foreground string
}

var colorMap = map[string]ColorClasses{
	"Green":      {Background: "bg-green", Foreground: "text-green"},
	"Yellow":     {Background: "bg-yellow", Foreground: "text-yellow"},
	"Cyan":       {Background: "bg-cyan", Foreground: "text-cyan"},
	"Navy":       {Background: "bg-navy", Foreground: "text-navy"},
	"Red":        {Background: "bg-red", Foreground: "text-red"},
	"Purple":     {Background: "bg-purple", Foreground: "text-purple"},
	"Pink":       {Background: "bg-pink", Foreground: "text-pink"},
	"Turquoise":  {Background: "bg-turquoise", Foreground: "text-turquoise"},
	"Brown":      {Background: "bg-brown", Foreground: "text-brown"},
	"Magenta":    {Background: "bg-magenta", Foreground: "text-magenta"},
	"Blue":       {Background: "bg-blue", Foreground: "text-blue"},
	"Navy Gray":  {Background: "bg-navyGray", Foreground: "text-navyGray"},
	"Army Green": {Background: "bg-armyGreen", Foreground: "text-armyGreen"},
	"Gold":       {Background: "bg-gold", Foreground: "text-gold"},
	"Orange":     {Background: "bg-orange", Foreground: "text-orange"},
	"Beige":      {Background: "bg-beige-100", Foreground: "text-beige-100"},
}

var defaultColor = ColorClasses{Background: "bg-gray-500", Foreground: "text-gray-500"}

// ColorFor maps a stored color name to its CSS classes. Unknown names
// get the gray default; there is no error case.
func ColorFor(name string) ColorClasses {
	if c, ok := colorMap[name]; ok {
		return c
	}
	return defaultColor
}

// ColorNames lists every known theme color, for budget creation forms.
func ColorNames() []string {
	names := make([]string, 0, len(colorMap))
	for name := range colorMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
