// File: internal/handlers/page_handler.go
package handlers

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/homellm/homechat/internal/domain"
	"github.com/homellm/homechat/internal/services"
)

// Template cache to avoid parsing templates on every request
var (
	templateCache     map[string]*template.Template
	templateCacheOnce sync.Once
)

func loadTemplateCache() {
	templateCache = make(map[string]*template.Template)

	templates := []string{"index.html", "chat.html"}
	for _, tmpl := range templates {
		ts, err := template.ParseFiles("web/templates/layout.html", "web/templates/"+tmpl)
		if err != nil {
			log.Fatalf("Error parsing %s: %v", tmpl, err)
		}
		templateCache[tmpl] = ts
	}
}

// PageHandler serves the server-rendered chat pages. The pages are
// read-only glue; all mutation goes through the JSON API.
type PageHandler struct {
	chatService *services.ChatService
	markdown    goldmark.Markdown
}

func NewPageHandler(cs *services.ChatService) *PageHandler {
	return &PageHandler{
		chatService: cs,
		markdown:    goldmark.New(),
	}
}

type renderedMessage struct {
	Role string
	HTML template.HTML
}

// ShowIndexPage renders the welcome view with the recent chat list.
func (h *PageHandler) ShowIndexPage(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListChats(r.Context())
	if err != nil {
		http.Error(w, "Could not load chats", http.StatusInternalServerError)
		return
	}
	h.render(w, "index.html", map[string]interface{}{
		"Chats": chats,
	})
}

// ShowChatPage renders one conversation, assistant replies converted
// from markdown.
func (h *PageHandler) ShowChatPage(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(w, r)
	if !ok {
		return
	}

	chat, messages, err := h.chatService.GetChat(r.Context(), chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	chats, err := h.chatService.ListChats(r.Context())
	if err != nil {
		http.Error(w, "Could not load chats", http.StatusInternalServerError)
		return
	}

	rendered := make([]renderedMessage, 0, len(messages))
	for _, m := range messages {
		rendered = append(rendered, renderedMessage{
			Role: m.Role,
			HTML: h.renderMarkdown(m),
		})
	}

	h.render(w, "chat.html", map[string]interface{}{
		"Chat":     chat,
		"Chats":    chats,
		"Messages": rendered,
	})
}

// renderMarkdown converts assistant markdown to HTML. User input is
// never treated as markup.
func (h *PageHandler) renderMarkdown(m domain.Message) template.HTML {
	if m.Role != domain.RoleAssistant {
		return template.HTML(template.HTMLEscapeString(m.Content))
	}
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(m.Content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(m.Content))
	}
	return template.HTML(buf.String())
}

func (h *PageHandler) render(w http.ResponseWriter, tmpl string, data map[string]interface{}) {
	templateCacheOnce.Do(loadTemplateCache)

	t, ok := templateCache[tmpl]
	if !ok {
		log.Printf("Template %s not found in cache", tmpl)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("Error rendering %s: %v", tmpl, err)
	}
}
