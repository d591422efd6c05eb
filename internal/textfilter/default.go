package textfilter

import (
	"regexp"
	"strings"
)

// Short noise tokens: morphological fragments, lone particles, byline
// debris. Checked by IsMeaningless.
const stopExactRaw = `
있 수 김 길 가 말 d 얼 b 백 보 위 년 명 바꾸 만 것 jtbc x 하기 작 더 는 은 이 가 를 에 와 과 도 으로 로 부터 에서 까지 에게 한 와/과 에게서 하 하다 입니다 기자 사진 제공 영상 기사 입력 전 날 주 월 년 오늘 내일 어제
`

// Full stopword list used when ranking keywords.
var stopWordsRaw = []string{
	"기자", "뉴스", "특파원", "오늘", "매우", "기사", "사진", "영상", "제공", "입력",
	"것", "수", "등", "및", "그리고", "그러나", "하지만", "지난", "이번", "관련", "대한", "통해", "대해", "위해",
	"입니다", "한다", "했다", "하였다", "에서는", "에서", "이날", "라며", "다고", "였다", "했다가", "하며",
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had", "her", "was", "one", "our",
}

// Curated technology vocabulary, Korean and English. Extend here, not in
// code paths.
const allowTermsRaw = `
ai 인공지능 머신러닝 딥러닝 생성형 챗gpt 로보틱스 로봇 자동화 협동로봇
반도체 메모리 dram nand ddr sram hbm 시스템 반도체 파운드리 웨이퍼 소자 공정 노광 euv 장비 소재
npu tpu gpu cpu dsp isp fpga asic 칩셋 칩 설계 리소그래피 패키징 하이브리드 본딩
이차전지 배터리 ess 양극재 음극재 전해질 분리막 고체전지 전고체 전기차 ev hev phev bms
자율주행 라이다 레이더 센서 카메라 제어기 ecu v2x
통신 네트워크 5g 6g lte nr 위성 mmwave 백홀 fronthaul 스몰셀
ict 클라우드 엣지컴퓨팅 엣지 컴퓨팅 서버 데이터센터 쿠버네티스 컨테이너 devops cicd 오브젝트스토리지 객체저장
소프트웨어 플랫폼 saas paas iaas 보안 암호 인증 키관리 키체인 취약점 제로트러스트
핀테크 블록체인 분산원장 defi nft
모델 학습 파인튜닝 튜닝 프롬프트 추론 인퍼런스 토큰 임베딩 경량화 양자화 distillation 지식증류
사물인터넷 iot 산업용iot iiot plc scada mes erp
디스플레이 oled qd 마이크로 led lcd microled micro-led
바이오 바이오센서 유전자치료제 세포치료제 의료기기 헬스케어 디지털 헬스 웨어러블 원격진료
`

var allowPatternsRaw = []string{
	`^llm$`, `^rlhf$`, `^rag$`, `^ssl$`, `^tls$`, `^ssh$`, `^api$`, `^sdk$`,
	`^[cg]pu$`, `^npu$`, `^tpu$`, `^fpga$`, `^asic$`,
	`^(5g|6g|4g|lte|nr)$`,
	`^dr?am$`, `^nand$`, `^hbm$`,
	`^(ai|ml|dl|nlp|cv)$`,
	`^(ar|vr|xr)$`,
	`net$`,
	`transformer`,
	`diffusion`,
	`foundation model`,
}

// High-confidence Korean technical substrings: a token containing one of
// these is tech regardless of the allow-list.
var techSubstrings = []string{"반도체", "자율주행", "클라우드", "모델", "알고리즘"}

const nonTechPattern = `연예|스타|예능|헬스|건강|라이프|맛집|여행|뷰티|운세|게임쇼|e스포츠`

// DefaultLexicon compiles the built-in word lists once. The result is
// immutable; share it freely.
func DefaultLexicon() Lexicon {
	stopExact := make(map[string]struct{})
	for _, w := range strings.Fields(stopExactRaw) {
		stopExact[strings.ToLower(w)] = struct{}{}
	}

	stopWords := make(map[string]struct{}, len(stopWordsRaw)+len(stopExact))
	for _, w := range stopWordsRaw {
		stopWords[strings.ToLower(w)] = struct{}{}
	}
	for w := range stopExact {
		stopWords[w] = struct{}{}
	}

	allowTerms := make(map[string]struct{})
	for _, w := range strings.Fields(allowTermsRaw) {
		allowTerms[strings.ToLower(w)] = struct{}{}
	}

	patterns := make([]*regexp.Regexp, 0, len(allowPatternsRaw))
	for _, p := range allowPatternsRaw {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+p))
	}

	return Lexicon{
		stopExact:      stopExact,
		stopWords:      stopWords,
		allowTerms:     allowTerms,
		allowPatterns:  patterns,
		versionPattern: regexp.MustCompile(`^[a-z]{2,}\d{1,2}$`),
		techSubstrings: techSubstrings,
		nonTech:        regexp.MustCompile(nonTechPattern),
	}
}
