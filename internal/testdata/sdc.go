package testdata

import "fmt"

const FakeSDCMachineID = "b6979942-7d5d-4fe6-a2ec-b812e950625a"

// FakeSDCMachineJSON is a CloudAPI GetMachine body in the given state.
func FakeSDCMachineJSON(state string) string {
	return fmt.Sprintf(`{
  "id": %q,
  "name": "test-machine",
  "type": "smartmachine",
  "state": %q,
  "dataset": "sdc:sdc:base:1.7.0",
  "memory": 128,
  "disk": 5120,
  "ips": ["10.88.88.50"],
  "created": "2024-01-01T00:00:00+00:00",
  "updated": "2024-01-01T00:05:00+00:00"
}`, FakeSDCMachineID, state)
}
