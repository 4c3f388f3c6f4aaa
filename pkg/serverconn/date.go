package serverconn

import "time"

// imfFixdate is the RFC 9110 §5.6.7 date format used by the Date header.
const imfFixdate = "Mon, 02 Jan 2006 15:04:05 GMT"

// httpDate renders the current time in IMF-fixdate form.
func httpDate() string {
	return time.Now().UTC().Format(imfFixdate)
}
