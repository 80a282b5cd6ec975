package service

import "strings"

// RenderTemplate replaces every {{KEY}} occurrence with its value. Unknown
// placeholders are left verbatim so a bad template never fails a run.
func RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}
