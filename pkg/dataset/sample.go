package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/ethpandaops/persona/pkg/records"
	"github.com/google/uuid"
)

var (
	// ErrInvalidSampleSize is returned when a sample size is not positive
	ErrInvalidSampleSize = errors.New("sample sizes must be positive")
)

//nolint:gochecknoglobals // Fixed vocabularies for synthetic data
var (
	sampleTargetTypes = []string{"军事基地", "港口", "机场", "通信设施", "工业设施", "雷达站", "指挥中心", "导弹基地", "核设施"}
	sampleCategories  = []string{"重要目标", "次要目标", "一般目标", "关键目标", "战略目标"}
	sampleAreaTypes   = []string{"城区", "郊区", "山区", "沿海", "内陆", "边境", "岛屿", "沙漠", "高原"}
	sampleSources     = []string{"电子侦察", "光学侦察", "雷达侦察", "红外侦察", "通信侦察", "信号情报"}
	sampleStatuses    = []string{"活跃", "待命", "维护", "升级", "测试"}
	sampleUnits       = []string{"第一情报部", "第二技术部", "第三作战部", "第四指挥部", "第五后勤部", "第六通信部", "第七装备部"}
	sampleGroups      = []string{"华北区组", "华东区组", "华南区组", "华西区组", "东北区组", "西北区组", "华中区组", "西南区组"}
	sampleScoutTypes  = []string{"电子侦察", "光学侦察", "雷达侦察", "通信侦察", "红外侦察", "多光谱侦察", "合成孔径雷达", "信号情报"}
	sampleCountries   = []string{"目标国A", "目标国B", "目标国C", "目标国D", "目标国E", "目标国F", "目标国G", "目标国H"}
	sampleTaskTypes   = []string{"1", "2", "3", "4", "5"}
	sampleYesNo       = []string{"是", "否"}
)

// SampleConfig controls synthetic dataset generation.
type SampleConfig struct {
	Targets int   `yaml:"targets" default:"20"`
	Tasks   int   `yaml:"tasks" default:"1000"`
	Users   int   `yaml:"users" default:"10"`
	Seed    int64 `yaml:"seed" default:"42"`
	// Start is the earliest task start time; tasks spread over the following year.
	Start time.Time `yaml:"start"`
}

// Validate checks the configuration.
func (c *SampleConfig) Validate() error {
	if c.Targets <= 0 || c.Tasks <= 0 || c.Users <= 0 {
		return ErrInvalidSampleSize
	}

	return nil
}

// Sample generates a synthetic batch of targets and tasks. The same config and
// seed always yield the same batch.
func Sample(cfg SampleConfig) ([]records.Target, []records.Task, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // Synthetic data only

	targets := sampleTargets(rng, cfg.Targets, start)
	users := sampleUsers(cfg.Users)
	tasks := make([]records.Task, 0, cfg.Tasks)

	for i := 0; i < cfg.Tasks; i++ {
		user := users[rng.Intn(len(users))]
		reqTime := start.
			AddDate(0, 0, rng.Intn(366)).
			Add(time.Duration(rng.Intn(24))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)

		tasks = append(tasks, records.Task{
			ReqID:          requestID(rng),
			TopicID:        fmt.Sprintf("TP%03d", rng.Intn(cfg.Targets)+1),
			ReqUnit:        user[0],
			ReqGroup:       user[1],
			ReqStartTime:   reqTime.Format("2006-01-02 15:04:05"),
			ReqEndTime:     reqTime.Add(time.Duration(rng.Intn(24)+1) * time.Hour).Format("2006-01-02 15:04:05"),
			TaskType:       pick(rng, sampleTaskTypes),
			TargetID:       fmt.Sprintf("TGT%03d", rng.Intn(cfg.Targets)+1),
			CountryName:    pick(rng, sampleCountries),
			TargetPriority: roundTenth(0.1 + rng.Float64()*0.9),
			IsEmcon:        pick(rng, sampleYesNo),
			ScoutType:      pick(rng, sampleScoutTypes),
		})
	}

	return targets, tasks, nil
}

func sampleTargets(rng *rand.Rand, n int, start time.Time) []records.Target {
	targets := make([]records.Target, 0, n)

	for i := 0; i < n; i++ {
		pointTime := start.AddDate(0, rng.Intn(12), rng.Intn(28)).Add(time.Duration(rng.Intn(24)) * time.Hour)

		targets = append(targets, records.Target{
			TargetID:       fmt.Sprintf("TGT%03d", i+1),
			TargetName:     fmt.Sprintf("目标%d", i+1),
			TargetType:     pick(rng, sampleTargetTypes),
			TargetCategory: pick(rng, sampleCategories),
			TargetPriority: roundTenth(0.1 + rng.Float64()*0.9),
			TargetAreaType: pick(rng, sampleAreaTypes),
			GroupList: []records.Group{{
				GroupName: fmt.Sprintf("技术组%c", 'A'+rune(i%26)),
				Source:    pick(rng, sampleSources),
				Status:    pick(rng, sampleStatuses),
			}},
			TrajectoryList: []records.Trajectory{{
				Lon:          strconv.FormatFloat(100+rng.Float64()*30, 'f', 2, 64),
				Lat:          strconv.FormatFloat(20+rng.Float64()*30, 'f', 2, 64),
				Alt:          strconv.Itoa(rng.Intn(191) + 10),
				PointTime:    pointTime.Format("2006-01-02 15:04:05"),
				Speed:        strconv.Itoa(rng.Intn(71) + 10),
				Heading:      strconv.Itoa(rng.Intn(360)),
				Seq:          strconv.Itoa(i + 1),
				ElectSilence: pick(rng, sampleYesNo),
			}},
		})
	}

	return targets
}

// sampleUsers enumerates unit and group pairs, wrapping around the vocabularies.
func sampleUsers(n int) [][2]string {
	users := make([][2]string, 0, n)

	for i := 0; i < n; i++ {
		unit := sampleUnits[i%len(sampleUnits)]
		group := sampleGroups[(i/len(sampleUnits))%len(sampleGroups)]

		if i >= len(sampleUnits)*len(sampleGroups) {
			group = fmt.Sprintf("%s%d", group, i/(len(sampleUnits)*len(sampleGroups)))
		}

		users = append(users, [2]string{unit, group})
	}

	return users
}

// requestID derives a UUID from the seeded source so samples stay reproducible.
func requestID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
