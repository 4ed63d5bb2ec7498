package testdata

import (
	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/protobuf/proto"
)

// FakeGCPInstance returns a fake GCP Virtual Machine in the given status
func FakeGCPInstance(status computepb.Instance_Status) *computepb.Instance {
	return &computepb.Instance{
		Name:   proto.String("fake-instance"),
		Status: proto.String(status.String()),
		MachineType: proto.String(
			"https://www.googleapis.com/compute/v1/projects/fake-project/zones/fake-zone/machineTypes/n1-standard-2",
		),
		NetworkInterfaces: []*computepb.NetworkInterface{
			{
				AccessConfigs: []*computepb.AccessConfig{
					{
						NatIP: proto.String("192.168.1.1"),
					},
				},
				NetworkIP: proto.String("10.0.1.1"),
			},
		},
	}
}

// FakeGCPOperation returns a zone operation in the given status
func FakeGCPOperation(status computepb.Operation_Status) *computepb.Operation {
	return &computepb.Operation{
		Name:   proto.String("operation-1"),
		Status: status.Enum(),
	}
}
