package clientinfo

import (
	"strconv"
	"strings"

	"github.com/mileusna/useragent"
)

// laptopMaxWidth is the widest viewport still classified as a laptop when the
// UA says desktop. Larger widths indicate an external display.
const laptopMaxWidth = 1920

// Device derives a coarse device category from the user agent, refined by the
// reported screen size ("<width>x<height>"). A desktop UA with a viewport of
// laptop proportions is reclassified; non-desktop types are never touched.
// Always returns a non-empty string.
func Device(ua, screen string) string {
	parsed := useragent.Parse(ua)

	device := "desktop"
	switch {
	case parsed.Tablet:
		device = "tablet"
	case parsed.Mobile:
		device = "mobile"
	}

	if device == "desktop" {
		if width, ok := screenWidth(screen); ok && width <= laptopMaxWidth {
			device = "laptop"
		}
	}
	return device
}

func screenWidth(screen string) (int, bool) {
	raw, _, ok := strings.Cut(screen, "x")
	if !ok {
		return 0, false
	}
	width, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return width, true
}
