package domain

import "testing"

func TestOutcome_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome Outcome
		want    bool
	}{
		{OutcomeKnown, true},
		{OutcomeUnknown, true},
		{Outcome("correct"), false},
		{Outcome(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			t.Parallel()
			if got := tt.outcome.IsValid(); got != tt.want {
				t.Errorf("Outcome(%q).IsValid() = %v, want %v", tt.outcome, got, tt.want)
			}
		})
	}
}

func TestStudyMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode StudyMode
		want bool
	}{
		{StudyModeTest, true},
		{StudyModePractice, true},
		{StudyModeChunkPractice, true},
		{StudyMode("exam"), false},
		{StudyMode(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			if got := tt.mode.IsValid(); got != tt.want {
				t.Errorf("StudyMode(%q).IsValid() = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestStudyMode_IsPractice(t *testing.T) {
	t.Parallel()

	if StudyModeTest.IsPractice() {
		t.Error("test mode should not be practice")
	}
	if !StudyModePractice.IsPractice() {
		t.Error("practice mode should be practice")
	}
	if !StudyModeChunkPractice.IsPractice() {
		t.Error("chunk_practice mode should be practice")
	}
}

func TestUserRole_IsValid(t *testing.T) {
	t.Parallel()

	// The accepted values must stay aligned with the users-table role
	// constraint; anything else would be rejected on insert.
	tests := []struct {
		role UserRole
		want bool
	}{
		{UserRoleStudent, true},
		{UserRoleAdmin, true},
		{UserRole("user"), false},
		{UserRole(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			if got := tt.role.IsValid(); got != tt.want {
				t.Errorf("UserRole(%q).IsValid() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}

	if UserRoleStudent.String() != "student" {
		t.Errorf("UserRoleStudent.String() = %q, want %q", UserRoleStudent.String(), "student")
	}
}

func TestUserRole_IsAdmin(t *testing.T) {
	t.Parallel()

	if UserRoleStudent.IsAdmin() {
		t.Error("student role should not be admin")
	}
	if !UserRoleAdmin.IsAdmin() {
		t.Error("admin role should be admin")
	}
}
