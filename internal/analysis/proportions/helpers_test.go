package proportions

import "abkit/domain/abtest"

func abtestRequest(ca, na, cb, nb int) abtest.ZTestRequest {
	return abtest.ZTestRequest{ConversionsA: ca, TotalA: na, ConversionsB: cb, TotalB: nb}
}
