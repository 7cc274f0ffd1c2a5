package nodes

import (
	"errors"
	"testing"
)

// TestParseNodeID verifies NodeId splitting across identifier types.
func TestParseNodeID(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantNamespace  string
		wantType       string
		wantIdentifier string
		wantErr        error
	}{
		{
			name:           "string identifier",
			raw:            "ns=2;s=Device1.Temperature",
			wantNamespace:  "2",
			wantType:       "s",
			wantIdentifier: "Device1.Temperature",
		},
		{
			name:           "numeric identifier",
			raw:            "ns=4;i=2045",
			wantNamespace:  "4",
			wantType:       "i",
			wantIdentifier: "2045",
		},
		{
			name:           "guid identifier",
			raw:            "ns=6;g=72962B91-FA75-4AE6-8D28-B404DC7DAF63",
			wantNamespace:  "6",
			wantType:       "g",
			wantIdentifier: "72962B91-FA75-4AE6-8D28-B404DC7DAF63",
		},
		{
			name:           "bytestring identifier",
			raw:            "ns=1;b=M/RbKBsRVkePCePcx24oRA==",
			wantNamespace:  "1",
			wantType:       "b",
			wantIdentifier: "M/RbKBsRVkePCePcx24oRA==",
		},
		{
			name:           "unprefixed identifier treated as string",
			raw:            "ns=2;Device1.Setpoint",
			wantNamespace:  "2",
			wantType:       "s",
			wantIdentifier: "Device1.Setpoint",
		},
		{
			name:           "missing ns prefix tolerated",
			raw:            "2;s=Device1.Mode",
			wantNamespace:  "2",
			wantType:       "s",
			wantIdentifier: "Device1.Mode",
		},
		{
			name:           "equals sign inside identifier preserved",
			raw:            "ns=2;s=Recipe=Default",
			wantNamespace:  "2",
			wantType:       "s",
			wantIdentifier: "Recipe=Default",
		},
		{
			name:    "no separator",
			raw:     "ns=2",
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "too many parts",
			raw:     "ns=2;s=a;s=b",
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: ErrInvalidNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namespace, identifierType, identifier, err := ParseNodeID(tt.raw)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseNodeID(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNodeID(%q) error = %v", tt.raw, err)
			}
			if namespace != tt.wantNamespace {
				t.Errorf("namespace = %q, want %q", namespace, tt.wantNamespace)
			}
			if identifierType != tt.wantType {
				t.Errorf("identifierType = %q, want %q", identifierType, tt.wantType)
			}
			if identifier != tt.wantIdentifier {
				t.Errorf("identifier = %q, want %q", identifier, tt.wantIdentifier)
			}
		})
	}
}
