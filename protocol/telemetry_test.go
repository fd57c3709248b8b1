package protocol

import "testing"

func TestEncodeTelemetry(t *testing.T) {
	tests := []struct {
		name  string
		frame Telemetry
		want  string
	}{
		{
			name:  "all sentinels",
			frame: Telemetry{BatteryPercent: 0, DistanceCm: DistanceUnknown, StartAgeMs: NoPendingStart},
			want:  "00FFFFFFFFFFFF",
		},
		{
			name:  "typical frame",
			frame: Telemetry{BatteryPercent: 87, DistanceCm: 1250, StartAgeMs: 60},
			want:  "5704E20000003C",
		},
		{
			name:  "full battery zero age",
			frame: Telemetry{BatteryPercent: 100, DistanceCm: 1, StartAgeMs: 0},
			want:  "64000100000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeTelemetry(tt.frame)
			if got != tt.want {
				t.Errorf("EncodeTelemetry() = %q, want %q", got, tt.want)
			}
			if len(got) != TelemetrySize*2 {
				t.Errorf("encoded length = %d, want %d", len(got), TelemetrySize*2)
			}

			back := DecodeTelemetry(got)
			if back == nil {
				t.Fatal("DecodeTelemetry() returned nil for valid frame")
			}
			if *back != tt.frame {
				t.Errorf("round trip = %+v, want %+v", *back, tt.frame)
			}
		})
	}
}

func TestDecodeTelemetryMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"odd length", "5704E20000003"},
		{"short frame", "5704E2"},
		{"long frame", "5704E20000003C00"},
		{"not hex", "ZZ04E20000003C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeTelemetry(tt.input); got != nil {
				t.Errorf("DecodeTelemetry(%q) = %+v, want nil", tt.input, got)
			}
		})
	}
}

func TestDecodeTelemetryNegativeAge(t *testing.T) {
	frame := Telemetry{BatteryPercent: 50, DistanceCm: 200, StartAgeMs: -1}
	back := DecodeTelemetry(EncodeTelemetry(frame))
	if back == nil {
		t.Fatal("DecodeTelemetry() returned nil")
	}
	if back.StartAgeMs != NoPendingStart {
		t.Errorf("StartAgeMs = %d, want %d", back.StartAgeMs, NoPendingStart)
	}
}
