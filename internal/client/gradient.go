// File: internal/client/gradient.go
package client

import (
	"hash/fnv"
	"strconv"
)

// Gradient is a visual accent pair for a chat's list entry and header.
type Gradient struct {
	Name string
	From string // hex color
	To   string // hex color
}

// palette is fixed and ordered; appending is safe, reordering is not,
// since existing chats keep their assigned entry by index.
var palette = []Gradient{
	{Name: "ocean", From: "#667eea", To: "#764ba2"},
	{Name: "sunset", From: "#f093fb", To: "#f5576c"},
	{Name: "forest", From: "#43e97b", To: "#38f9d7"},
	{Name: "ember", From: "#fa709a", To: "#fee140"},
	{Name: "dusk", From: "#30cfd0", To: "#330867"},
	{Name: "aurora", From: "#a8edea", To: "#fed6e3"},
	{Name: "flame", From: "#ff9a9e", To: "#fecfef"},
	{Name: "sky", From: "#4facfe", To: "#00f2fe"},
}

// AssignGradient maps a chat id to a palette entry. The mapping is a
// total function, deterministic and stable for the lifetime of the
// chat: the same id yields the same entry regardless of list order or
// session.
func AssignGradient(chatID uint) Gradient {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatUint(uint64(chatID), 10)))
	return palette[h.Sum32()%uint32(len(palette))]
}
