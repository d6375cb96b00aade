// Command repo-generator builds the static add-on repository index:
// addons.xml with the newest release per add-on identifier, and
// addons.xml.md5 with the digest of its exact bytes.
package main

import "github.com/Torresmi9294/kodi-romm-repo/cmd/repo-generator/cmd"

func main() {
	cmd.Execute()
}
