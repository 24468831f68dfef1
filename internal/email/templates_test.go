package email

import (
	"strings"
	"testing"
)

func TestRenderNotice(t *testing.T) {
	html, err := RenderNotice("Dear Customer,\n\nYour claim was received.", "AIG Team")
	if err != nil {
		t.Fatalf("RenderNotice: %v", err)
	}
	if !strings.Contains(html, "Dear Customer,<br><br>Your claim was received.") {
		t.Fatalf("line breaks not converted:\n%s", html)
	}
	if !strings.Contains(html, "<b>AIG Team</b>") {
		t.Fatalf("company name missing:\n%s", html)
	}
}

func TestRenderNoticeEscapesHTML(t *testing.T) {
	html, err := RenderNotice(`Click <script>alert("x")</script> now`, "AIG Team")
	if err != nil {
		t.Fatalf("RenderNotice: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("content was not escaped:\n%s", html)
	}
}
