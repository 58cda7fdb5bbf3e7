package patchset

import (
	"errors"
	"testing"
)

const samplePatch = `From 27b53f08bb8b7dcf4e9ae551bc8f9c65a05568ca Mon Sep 17 00:00:00 2001
From: A Developer <dev@example.com>
Date: Mon, 4 Aug 2026 10:00:00 +0200
Subject: [PATCH] drivers: add vendor quirk

---
 drivers/platform/vendor.c | 3 +++
 include/linux/vendor.h    | 1 -
 2 files changed, 3 insertions(+), 1 deletion(-)

diff --git a/drivers/platform/vendor.c b/drivers/platform/vendor.c
index 1111111..2222222 100644
--- a/drivers/platform/vendor.c
+++ b/drivers/platform/vendor.c
@@ -10,6 +10,9 @@ static int vendor_probe(void)
 {
 	int ret;

+	if (quirk_enabled)
+		return vendor_quirk_init();
+
 	return 0;
 }
diff --git a/include/linux/vendor.h b/include/linux/vendor.h
index 3333333..4444444 100644
--- a/include/linux/vendor.h
+++ b/include/linux/vendor.h
@@ -2,7 +2,6 @@
 #ifndef _LINUX_VENDOR_H
 #define _LINUX_VENDOR_H

-extern int legacy_quirk;
 int vendor_quirk_init(void);

 #endif
`

func TestDiffstat(t *testing.T) {
	stat, err := Diffstat(samplePatch)
	if err != nil {
		t.Fatalf("Diffstat failed: %v", err)
	}

	if stat.Files != 2 {
		t.Errorf("Files = %d, want 2", stat.Files)
	}
	if stat.Added != 3 {
		t.Errorf("Added = %d, want 3", stat.Added)
	}
	if stat.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", stat.Deleted)
	}
}

func TestDiffstatNoContent(t *testing.T) {
	for _, content := range []string{"", "Subject: [PATCH] empty\n\n---\n"} {
		if _, err := Diffstat(content); !errors.Is(err, ErrNoDiffContent) {
			t.Errorf("Diffstat(%q): expected ErrNoDiffContent, got %v", content, err)
		}
	}
}

func TestStatString(t *testing.T) {
	s := Stat{Files: 2, Added: 3, Deleted: 1}
	if got := s.String(); got != "2 file(s), +3 -1" {
		t.Errorf("String = %q", got)
	}
}

func TestValidate(t *testing.T) {
	good := []Patch{{Label: "quirk", Content: samplePatch}}
	if err := Validate(good); err != nil {
		t.Errorf("Expected valid series, got %v", err)
	}

	bad := append(good, Patch{Label: "empty", Content: "no diff here"})
	err := Validate(bad)
	if !errors.Is(err, ErrNoDiffContent) {
		t.Errorf("Expected ErrNoDiffContent, got %v", err)
	}
}
