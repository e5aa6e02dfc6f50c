package export

import (
	"html"
	"strings"
)

// Word output is HTML that Word opens as a document.
const (
	WordContentType = "application/msword"
	WordExtension   = ".doc"
)

const wordEnvelope = `<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:w="urn:schemas-microsoft-com:office:word" xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta charset="utf-8">
<title>{{TITLE}}</title>
<!--[if gte mso 9]><xml><w:WordDocument><w:View>Print</w:View><w:Zoom>100</w:Zoom></w:WordDocument></xml><![endif]-->
<style>
@page { size: 21cm 29.7cm; margin: 2cm; }
body { font-family: "Times New Roman", serif; font-size: 12pt; }
</style>
</head>
<body>
{{BODY}}
</body>
</html>`

// WordDocument wraps bodyHTML in the Office HTML envelope.
func WordDocument(title, bodyHTML string) []byte {
	r := strings.NewReplacer("{{TITLE}}", html.EscapeString(title), "{{BODY}}", bodyHTML)
	return []byte(r.Replace(wordEnvelope))
}

// TextToHTML escapes plain text and turns newlines into <br> tags.
func TextToHTML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n")
}
