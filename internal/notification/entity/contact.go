package entity

import "strings"

// Contact is a message submitted through the public contact form.
type Contact struct {
	Name    string
	Email   string
	Subject string
	Content string
}

// Body renders the plain text mail sent to the organisation.
func (c Contact) Body() string {
	var b strings.Builder
	b.WriteString("name: ")
	b.WriteString(c.Name)
	b.WriteString("\nemail: ")
	b.WriteString(c.Email)
	b.WriteString("\nmessage: ")
	b.WriteString(c.Content)

	return b.String()
}
