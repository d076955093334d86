package imap

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap-engine/internal"
)

// Date and time layouts.
const (
	// Described in RFC 3501 section 9, date-text.
	DateLayout = internal.DateLayout
	// Described in RFC 3501 section 9, date-time.
	DateTimeLayout = internal.DateTimeLayout
	// Described in RFC 5322 section 3.3.
	MessageDateTimeLayout = "Mon, 02 Jan 2006 15:04:05 -0700"
)

// messageDateTimeLayouts holds every combination of the optional day of week,
// day and year widths, optional seconds and zone forms allowed by RFC 5322
// section 3.3. MessageDateTimeLayout is the most common one and comes first.
var messageDateTimeLayouts = buildMessageDateTimeLayouts()

func buildMessageDateTimeLayouts() []string {
	layouts := []string{MessageDateTimeLayout}
	for _, weekday := range []string{"", "Mon, "} {
		for _, day := range []string{"2", "02"} {
			for _, year := range []string{"2006", "06"} {
				for _, clock := range []string{"15:04:05", "15:04"} {
					for _, zone := range []string{"-0700", "MST", "-0700 (MST)"} {
						layout := weekday + day + " Jan " + year + " " + clock + " " + zone
						if layout != MessageDateTimeLayout {
							layouts = append(layouts, layout)
						}
					}
				}
			}
		}
	}
	return layouts
}

// ParseMessageDateTime parses the date of a message, as found in the Date
// header field and in the ENVELOPE structure. All the layouts permitted by
// RFC 5322 section 3.3 are tried.
func ParseMessageDateTime(maybeDate string) (time.Time, error) {
	maybeDate = strings.TrimSpace(maybeDate)
	for _, layout := range messageDateTimeLayouts {
		parsed, err := time.Parse(layout, maybeDate)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("imap: date %q could not be parsed", maybeDate)
}

// ParseDateTime parses an IMAP date-time, such as an INTERNALDATE value.
func ParseDateTime(maybeDate string) (time.Time, error) {
	maybeDate = strings.TrimSpace(maybeDate)
	parsed, err := time.Parse(DateTimeLayout, maybeDate)
	if err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("imap: date %q could not be parsed", maybeDate)
}

// ParseDate parses an IMAP date.
func ParseDate(maybeDate string) (time.Time, error) {
	maybeDate = strings.TrimSpace(maybeDate)
	parsed, err := time.Parse(DateLayout, maybeDate)
	if err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("imap: date %q could not be parsed", maybeDate)
}
