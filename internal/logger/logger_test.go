package logger

import "testing"

func TestInitialize(t *testing.T) {
	testCases := []struct {
		TestName      string
		Level         string
		ExpectedError bool
	}{
		{TestName: "Success. Info level #1", Level: "info"},
		{TestName: "Success. Debug level #2", Level: "debug"},
		{TestName: "Error. Unknown level #3", Level: "chatty", ExpectedError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			err := Initialize(tc.Level)
			if (err != nil) != tc.ExpectedError {
				t.Errorf("Unexpected error: '%v'", err)
			}
			Infow("logger initialized", "level", tc.Level)
		})
	}
}

func TestGet_BeforeInitialize(t *testing.T) {
	saved := instance
	instance = nil
	defer func() { instance = saved }()

	if Get() == nil {
		t.Errorf("Expected no-op logger before initialization")
	}
	if err := Sync(); err != nil {
		t.Errorf("Expected no error, got: '%v'", err)
	}
}
