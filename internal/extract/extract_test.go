package extract

import "testing"

func TestTweetRefExtractsHandleAndID(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantHandle string
		wantID     string
		wantOK     bool
	}{
		{
			name:       "plain url",
			message:    "https://twitter.com/alice/status/12345",
			wantHandle: "alice",
			wantID:     "12345",
			wantOK:     true,
		},
		{
			name:       "url embedded in text",
			message:    "check out this link http://twitter.com/bob_2/status/99",
			wantHandle: "bob_2",
			wantID:     "99",
			wantOK:     true,
		},
		{
			name:       "first of multiple urls wins",
			message:    "twitter.com/first/status/1 and twitter.com/second/status/2",
			wantHandle: "first",
			wantID:     "1",
			wantOK:     true,
		},
		{
			name:    "no url at all",
			message: "no url here",
			wantOK:  false,
		},
		{
			name:    "non-numeric status id",
			message: "twitter.com/alice/status/abc",
			wantOK:  false,
		},
		{
			name:    "domain without status path",
			message: "see twitter.com/alice for more",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := TweetRef(tt.message)
			if ok != tt.wantOK {
				t.Fatalf("TweetRef(%q) ok = %v, want %v", tt.message, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if ref.Handle != tt.wantHandle || ref.StatusID != tt.wantID {
				t.Fatalf("TweetRef(%q) = (%s, %s), want (%s, %s)",
					tt.message, ref.Handle, ref.StatusID, tt.wantHandle, tt.wantID)
			}
		})
	}
}

func TestTweetRefEmptyMessage(t *testing.T) {
	if _, ok := TweetRef(""); ok {
		t.Fatalf("empty message should not match")
	}
}
