package autostart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
)

// NewLaunchAgentRegistrar manages ~/Library/LaunchAgents/<label>.plist.
func NewLaunchAgentRegistrar(dir, label string) *FileRegistrar {
	return &FileRegistrar{
		path:   filepath.Join(dir, label+".plist"),
		escape: xmlEscape,
		render: func(exe string) []byte {
			return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>ProcessType</key>
	<string>Interactive</string>
</dict>
</plist>
`, xmlEscape(label), xmlEscape(exe), LaunchArg))
		},
	}
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
