package domain

// Labels used when no taxonomy keyword matched a document.
const (
	MainUnclassified = "분류불가"
	SubOther         = "기타"
)

// SubCategory groups the trigger keywords of one second-level label.
type SubCategory struct {
	Name     string
	Keywords []string
}

// MainCategory is a first-level label; every sub-category belongs to
// exactly one main category.
type MainCategory struct {
	Name string
	Subs []SubCategory
}

// Taxonomy is an ordered two-level keyword map. Declaration order is
// significant: primary-label ties are broken by it, so classification
// stays deterministic across runs.
type Taxonomy []MainCategory

// Match is one (main, sub, trigger keyword) triple recorded during
// classification; the majority vote over matches picks the primary labels.
type Match struct {
	Main    string
	Sub     string
	Keyword string
}

// Classification is derived per document and never persisted.
type Classification struct {
	Mains       []string
	Subs        []string
	PrimaryMain string
	PrimarySub  string
	Matched     []Match
}

// DefaultTaxonomy returns the built-in industry taxonomy. It is
// configuration, not logic: curate it, do not branch on it.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "첨단 제조·기술 산업", Subs: []SubCategory{
			{Name: "반도체 분야", Keywords: []string{"반도체", "메모리", "시스템 반도체", "파운드리", "소자", "웨이퍼", "노광", "EUV", "장비", "소재"}},
			{Name: "자동차 분야", Keywords: []string{"자동차", "내연기관", "전기차", "자율주행", "모빌리티", "현대차", "테슬라", "배터리카"}},
			{Name: "이차전지 분야", Keywords: []string{"이차전지", "배터리", "ESS", "양극재", "음극재", "전해질", "분리막"}},
			{Name: "디스플레이 분야", Keywords: []string{"디스플레이", "OLED", "QD", "마이크로 LED", "LCD"}},
			{Name: "로봇·스마트팩토리 분야", Keywords: []string{"로봇", "스마트팩토리", "산업자동화", "협동로봇"}},
		}},
		{Name: "에너지·환경 산업", Subs: []SubCategory{
			{Name: "에너지 분야", Keywords: []string{"석유", "가스", "원자력", "태양광", "풍력", "수소", "신재생에너지"}},
			{Name: "환경·탄소중립 분야", Keywords: []string{"탄소중립", "폐기물", "친환경", "수처리", "CCUS", "재활용"}},
		}},
		{Name: "디지털·ICT 산업", Subs: []SubCategory{
			{Name: "AI 분야", Keywords: []string{"AI", "인공지능", "머신러닝", "딥러닝", "생성형", "챗GPT", "로보틱스"}},
			{Name: "ICT·통신 분야", Keywords: []string{"5G", "6G", "통신", "네트워크", "인프라", "클라우드"}},
			{Name: "소프트웨어·플랫폼", Keywords: []string{"소프트웨어", "메타버스", "SaaS", "보안", "핀테크", "플랫폼"}},
		}},
		{Name: "바이오·헬스케어 산업", Subs: []SubCategory{
			{Name: "바이오·제약 분야", Keywords: []string{"바이오", "제약", "신약", "바이오시밀러", "세포치료제", "유전자치료제"}},
			{Name: "의료기기·헬스케어", Keywords: []string{"의료기기", "헬스케어", "디지털 헬스", "웨어러블", "원격진료"}},
		}},
		{Name: "소재·화학 산업", Subs: []SubCategory{
			{Name: "첨단 소재", Keywords: []string{"탄소소재", "나노소재", "고분자", "복합소재"}},
			{Name: "정밀화학·석유화학", Keywords: []string{"정밀화학", "석유화학", "케미컬", "특수가스", "반도체용 케미컬"}},
		}},
		{Name: "인프라·기반 산업", Subs: []SubCategory{
			{Name: "철강·조선·건설", Keywords: []string{"철강", "조선", "건설", "스마트건설", "친환경 선박"}},
			{Name: "물류·유통", Keywords: []string{"물류", "유통", "전자상거래", "스마트 물류", "공급망"}},
			{Name: "농업·식품", Keywords: []string{"농업", "스마트팜", "대체식품", "식품"}},
		}},
	}
}
