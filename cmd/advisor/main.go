package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zhcet-ai/advisor-engine/internal/academics"
	"github.com/zhcet-ai/advisor-engine/internal/app"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// snapshotFile is the offline input: every known student plus the course
// catalog, exported from the records office.
type snapshotFile struct {
	Profiles []types.StudentProfile            `json:"profiles"`
	Records  map[string][]types.AcademicRecord `json:"records"`
	Catalog  []types.Course                    `json:"catalog"`
}

func main() {
	var snapshotPath string
	var studentID string
	var message string
	var chat bool
	flag.StringVar(&snapshotPath, "snapshot", "", "path to the academic snapshot JSON")
	flag.StringVar(&studentID, "student", "", "student id to evaluate")
	flag.StringVar(&message, "message", "", "question to send through the chat surface")
	flag.BoolVar(&chat, "chat", false, "answer -message instead of printing the verdict")
	flag.Parse()

	if snapshotPath == "" || studentID == "" {
		fmt.Println("usage: advisor -snapshot <json> -student <id> [-chat -message <text>]")
		os.Exit(1)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	raw, err := os.ReadFile(snapshotPath)
	if err != nil {
		fmt.Printf("read snapshot: %v\n", err)
		os.Exit(1)
	}
	var snap snapshotFile
	if err := json.Unmarshal(raw, &snap); err != nil {
		fmt.Printf("parse snapshot: %v\n", err)
		os.Exit(1)
	}

	// Records-office exports sometimes omit derivable fields.
	for i := range snap.Profiles {
		p := &snap.Profiles[i]
		if p.Branch == "" {
			p.Branch = academics.BranchFromFacultyNumber(p.FacultyNumber)
		}
		if p.CurrentSemester == 0 && p.AdmissionYear > 0 {
			p.CurrentSemester = academics.CurrentSemester(p.AdmissionYear, time.Now())
		}
	}

	var profile *types.StudentProfile
	for i := range snap.Profiles {
		if snap.Profiles[i].StudentID == studentID {
			profile = &snap.Profiles[i]
			break
		}
	}
	if profile == nil {
		fmt.Printf("student %s not present in snapshot\n", studentID)
		os.Exit(1)
	}
	records := snap.Records[studentID]

	ctx := context.Background()

	if chat {
		if strings.TrimSpace(message) == "" {
			fmt.Println("-chat requires -message")
			os.Exit(1)
		}
		reply, err := application.Services.Chat.Chat(ctx, profile, records, snap.Catalog, message)
		if err != nil {
			fmt.Printf("chat: %v\n", err)
			os.Exit(1)
		}
		printJSON(reply)
		return
	}

	verdict, err := application.Services.Eligibility.AnalyzeEligibility(ctx, profile, records, snap.Catalog)
	if err != nil {
		fmt.Printf("analyze eligibility: %v\n", err)
		os.Exit(1)
	}
	recommendation := application.Services.Allocator.Recommend(profile, verdict, snap.Catalog)

	printJSON(struct {
		Verdict        *types.EligibilityVerdict   `json:"verdict"`
		Recommendation *types.CourseRecommendation `json:"recommendation"`
	}{verdict, recommendation})
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
