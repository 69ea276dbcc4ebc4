package sop

// Parties is the canonical column order used for every tally.
var Parties = []string{"APNU", "AFC", "FGM", "ALP", "PPP", "WIN"}

// Votes holds the six per-party counters of a statement of poll.
type Votes struct {
	APNU int `json:"APNU"`
	AFC  int `json:"AFC"`
	FGM  int `json:"FGM"`
	ALP  int `json:"ALP"`
	PPP  int `json:"PPP"`
	WIN  int `json:"WIN"`
}

// Add returns the field-wise sum of v and other.
func (v Votes) Add(other Votes) Votes {
	return Votes{
		APNU: v.APNU + other.APNU,
		AFC:  v.AFC + other.AFC,
		FGM:  v.FGM + other.FGM,
		ALP:  v.ALP + other.ALP,
		PPP:  v.PPP + other.PPP,
		WIN:  v.WIN + other.WIN,
	}
}

// Values returns the counters in the order of Parties.
func (v Votes) Values() []int {
	return []int{v.APNU, v.AFC, v.FGM, v.ALP, v.PPP, v.WIN}
}

type Record struct {
	SopID      string `json:"sopId"`
	Region     string `json:"region"`
	RegionName string `json:"regionName"`
	Station    string `json:"station"`
	Votes      Votes  `json:"votes"`
}

type RegionGroup struct {
	Region  string
	Name    string
	Records []Record
}

type Report struct {
	Regions []RegionGroup
	Total   Votes
}

// Group buckets records by region code. Groups appear in the order their
// region code is first seen and keep their records in input order.
// Records sharing a SopID are kept as separate rows.
func Group(records []Record) []RegionGroup {
	groups := []RegionGroup{}
	index := map[string]int{}
	for _, r := range records {
		i, ok := index[r.Region]
		if !ok {
			i = len(groups)
			index[r.Region] = i
			groups = append(groups, RegionGroup{
				Region: r.Region,
				Name:   r.RegionName,
			})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

func Sum(records []Record) Votes {
	var total Votes
	for _, r := range records {
		total = total.Add(r.Votes)
	}
	return total
}

func Aggregate(records []Record) Report {
	return Report{
		Regions: Group(records),
		Total:   Sum(records),
	}
}
