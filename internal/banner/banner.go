// Package banner renders the startup banner.
package banner

import "fmt"

const art = `
   ___ ___   ___   ___
  / __/ _ \ / _ \ / __|
 | (_| (_) | (_) | (__
  \___\___/ \___/ \___|
`

// Banner returns the banner text for version.
func Banner(version string) string {
	return fmt.Sprintf("%s  windowed co-occurrence features %s\n\n", art, version)
}
