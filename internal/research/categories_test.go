package research

import "testing"

func TestDefaultCategoriesLoaded(t *testing.T) {
	if len(DefaultCategories) != 10 {
		t.Fatalf("Expected 10 categories, got %d", len(DefaultCategories))
	}
	for _, cat := range DefaultCategories {
		if cat.Name == "" {
			t.Error("Category with empty name")
		}
		if len(cat.Keywords) == 0 {
			t.Errorf("Category %q has no keywords", cat.Name)
		}
	}
}

func TestLoadCategoriesRejectsEmpty(t *testing.T) {
	if _, err := LoadCategories([]byte("categories: []")); err == nil {
		t.Error("Expected error for empty table")
	}
	if _, err := LoadCategories([]byte("{not yaml")); err == nil {
		t.Error("Expected error for invalid yaml")
	}
}

func TestClassifyPicksHighestKeywordCount(t *testing.T) {
	classifier := NewClassifier([]Category{
		{Name: "Geopolitical", Keywords: []string{"tariff", "sanction", "war"}},
		{Name: "Logistics", Keywords: []string{"shipping", "port", "freight"}},
	})

	got := classifier.Classify("Port strikes and freight rate spikes disrupt shipping lanes")
	if got != "Logistics" {
		t.Errorf("Expected Logistics, got %q", got)
	}

	got = classifier.Classify("New tariff rounds follow fresh sanction packages")
	if got != "Geopolitical" {
		t.Errorf("Expected Geopolitical, got %q", got)
	}
}

func TestClassifyTieBreaksByTableOrder(t *testing.T) {
	classifier := NewClassifier([]Category{
		{Name: "First", Keywords: []string{"alpha"}},
		{Name: "Second", Keywords: []string{"beta"}},
	})

	// One keyword match each; the earlier category wins.
	if got := classifier.Classify("alpha and beta both appear"); got != "First" {
		t.Errorf("Expected First on tie, got %q", got)
	}
}

func TestClassifyPortCongestion(t *testing.T) {
	classifier := NewClassifier(DefaultCategories)

	got := classifier.Classify("Severe port congestion at Chittagong slows food imports")
	if got != "Shipping & Logistics Bottlenecks" {
		t.Errorf("Expected Shipping & Logistics Bottlenecks, got %q", got)
	}
}

func TestClassifyFallsBackToOther(t *testing.T) {
	classifier := NewClassifier(DefaultCategories)
	if got := classifier.Classify("xyzzy plugh"); got != CategoryOther {
		t.Errorf("Expected %q, got %q", CategoryOther, got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	classifier := NewClassifier([]Category{
		{Name: "Cyber", Keywords: []string{"Ransomware"}},
	})
	if got := classifier.Classify("RANSOMWARE attack halts production"); got != "Cyber" {
		t.Errorf("Expected Cyber, got %q", got)
	}
}
