package docker

import "strings"

// ParseContainerName strips the single leading "/" the engine puts in front of names.
func ParseContainerName(name string) string {
	return strings.TrimPrefix(name, "/")
}

// FormatName returns the engine name for a container created under project.
// Names that already mention the project are left as they are.
func (c *Client) FormatName(name, project string) string {
	name = ParseContainerName(name)
	if project == "" || strings.Contains(name, project) {
		return name
	}
	return c.projectPrefix(project) + name
}

func (c *Client) projectPrefix(project string) string {
	return c.prefix + project + "-"
}

// belongsTo reports whether any of the container's names carries the project prefix.
func (c *Client) belongsTo(names []string, project string) bool {
	prefix := c.projectPrefix(project)
	for _, name := range names {
		if strings.HasPrefix(ParseContainerName(name), prefix) {
			return true
		}
	}
	return false
}
