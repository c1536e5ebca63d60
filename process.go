package fitness

// Outcome is the result of processing one packet. Exactly one of Report and
// Err is set.
type Outcome struct {
	Index  int
	Packet Packet
	Report *InfoMessage
	Err    error
}

// ProcessPacket validates, constructs and reports on a single packet.
func ProcessPacket(p Packet) (InfoMessage, error) {
	if err := Validate(p.Code, p.Data); err != nil {
		return InfoMessage{}, err
	}
	training, err := ReadPackage(p.Code, p.Floats())
	if err != nil {
		return InfoMessage{}, err
	}
	return ShowTrainingInfo(training), nil
}

// Process handles packets in order. Rejected packets are reported through
// Outcome.Err and do not stop the remaining ones.
func Process(packets []Packet) []Outcome {
	out := make([]Outcome, 0, len(packets))
	for i, p := range packets {
		o := Outcome{Index: i, Packet: p}
		report, err := ProcessPacket(p)
		if err != nil {
			o.Err = err
		} else {
			o.Report = &report
		}
		out = append(out, o)
	}
	return out
}

// DemoPackets returns a small set of sample packets, one per activity.
func DemoPackets() []Packet {
	return []Packet{
		NewPacket(CodeSwimming, 720, 1, 80, 25, 50),
		NewPacket(CodeRunning, 15000, 1, 75),
		NewPacket(CodeWalking, 9000, 1, 75, 180),
	}
}
