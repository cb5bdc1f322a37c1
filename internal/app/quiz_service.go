package app

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"basegenius-quiz-service/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

// QuizLength is the number of questions issued per quiz; a perfect score
// means exactly this many correct answers.
const QuizLength = 5

// CatalogRepository loads the weekly question catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

// MintAuthorizer signs mint authorizations. Implemented by badge.Signer.
type MintAuthorizer interface {
	Ready() bool
	SignMint(user common.Address, week uint64) (string, error)
}

// IssuanceLog records issued signatures for auditing. Best-effort only: it
// never gates issuance and its failures never fail a request.
type IssuanceLog interface {
	Record(ctx context.Context, rec domain.IssuanceRecord) error
}

// QuizService contains the quiz use cases: question selection, grading and
// mint authorization.
type QuizService struct {
	catalog  CatalogRepository
	signer   MintAuthorizer
	issuance IssuanceLog

	// rand.Rand is not safe for concurrent use; mu guards every draw.
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewQuizService wires the service. issuance may be nil to disable the audit
// log; rnd may be nil to use a time-seeded source (tests inject a seeded one
// to assert exact permutations).
func NewQuizService(catalog CatalogRepository, signer MintAuthorizer, issuance IssuanceLog, rnd *rand.Rand) *QuizService {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuizService{catalog: catalog, signer: signer, issuance: issuance, rnd: rnd}
}

// QuestionsPage is the sanitized selection served before submission.
type QuestionsPage struct {
	WeekNumber     uint64                `json:"weekNumber"`
	Questions      []domain.QuestionView `json:"questions"`
	TotalAvailable int                   `json:"totalAvailable"`
}

// Questions returns up to QuizLength randomly selected questions, optionally
// filtered by exact difficulty and with the given IDs excluded. A pool
// smaller than QuizLength yields a short quiz, not an error.
func (s *QuizService) Questions(ctx context.Context, difficulty domain.Difficulty, excludeIDs []int) (QuestionsPage, error) {
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return QuestionsPage{}, err
	}

	excluded := make(map[int]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	pool := make([]domain.Question, 0, len(catalog.Questions))
	for _, q := range catalog.Questions {
		if difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		if _, ok := excluded[q.ID]; ok {
			continue
		}
		pool = append(pool, q)
	}

	s.shuffle(pool)

	count := QuizLength
	if len(pool) < count {
		count = len(pool)
	}
	views := make([]domain.QuestionView, 0, count)
	for _, q := range pool[:count] {
		views = append(views, q.View())
	}

	return QuestionsPage{
		WeekNumber:     catalog.WeekNumber,
		Questions:      views,
		TotalAvailable: len(pool),
	}, nil
}

// shuffle applies an unbiased Fisher-Yates permutation in place.
func (s *QuizService) shuffle(pool []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(pool) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}

// Grade scores submissions against the authoritative catalog. Client-supplied
// data is only trusted for (questionId, selectedIndex); everything else is
// looked up server-side. Unknown IDs are marked incorrect and the batch
// continues.
func Grade(catalog domain.Catalog, submissions []domain.AnswerSubmission) domain.GradingResult {
	results := make([]domain.AnswerResult, 0, len(submissions))
	score := 0
	for _, sub := range submissions {
		question, ok := catalog.FindQuestion(sub.QuestionID)
		if !ok {
			results = append(results, domain.AnswerResult{
				QuestionID:   sub.QuestionID,
				Correct:      false,
				CorrectIndex: -1,
				Explanation:  "Question not found",
			})
			continue
		}

		correct := sub.SelectedIndex == question.CorrectIndex
		if correct {
			score++
		}
		results = append(results, domain.AnswerResult{
			QuestionID:   sub.QuestionID,
			Correct:      correct,
			CorrectIndex: question.CorrectIndex,
			Explanation:  question.Explanation,
			SourceURL:    question.SourceURL,
		})
	}

	return domain.GradingResult{
		Score:          score,
		TotalQuestions: len(submissions),
		IsPerfectScore: score == QuizLength,
		Results:        results,
	}
}

// SubmitAnswers grades a submission and, on a perfect score with a wallet
// address attached, attempts mint authorization. The mint half is always
// advisory: its failures are folded into the MintOutcome, never the error.
func (s *QuizService) SubmitAnswers(ctx context.Context, submissions []domain.AnswerSubmission, walletAddress string) (domain.GradingResult, domain.MintOutcome, uint64, error) {
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return domain.GradingResult{}, domain.MintOutcome{}, 0, err
	}

	grading := Grade(catalog, submissions)
	outcome := s.AuthorizeMint(ctx, walletAddress, catalog.WeekNumber, grading.IsPerfectScore)
	return grading, outcome, catalog.WeekNumber, nil
}

// AuthorizeMint is the sole access-control gate in front of the signer: a
// non-perfect score never reaches it, whatever the client claims. Every
// failure mode is reported as an advisory outcome.
func (s *QuizService) AuthorizeMint(ctx context.Context, walletAddress string, week uint64, isPerfectScore bool) domain.MintOutcome {
	if !isPerfectScore {
		return domain.MintOutcome{}
	}
	if walletAddress == "" {
		// Perfect score without a connected wallet; nothing to sign.
		return domain.MintOutcome{}
	}
	if !common.IsHexAddress(walletAddress) {
		return domain.MintOutcome{Err: domain.ErrInvalidAddress.Error()}
	}
	if s.signer == nil || !s.signer.Ready() {
		return domain.MintOutcome{Err: domain.ErrSignerUnconfigured.Error()}
	}

	user := common.HexToAddress(walletAddress)
	sig, err := s.signer.SignMint(user, week)
	if err != nil {
		if errors.Is(err, domain.ErrSignerUnconfigured) {
			return domain.MintOutcome{Err: domain.ErrSignerUnconfigured.Error()}
		}
		log.Printf("mint signing failed for %s week %d: %v", walletAddress, week, err)
		return domain.MintOutcome{Err: "failed to generate mint signature"}
	}

	if s.issuance != nil {
		if err := s.issuance.Record(ctx, domain.IssuanceRecord{
			Address:  user.Hex(),
			Week:     week,
			IssuedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("issuance log write failed: %v", err)
		}
	}

	return domain.MintOutcome{CanMint: true, Signature: sig}
}
