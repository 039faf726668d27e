package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"benovitz-content-api/internal/domain/service"
	workflowprompt "benovitz-content-api/internal/workflow/prompt"
	apperrors "benovitz-content-api/pkg/errors"
)

type chainInput struct {
	Content  workflowprompt.ContentInput
	Provider string
}

type chainOutput struct {
	Content          string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

type contentChainState struct {
	In       *chainInput
	Provider string
	Model    string
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (s *Service) getChain() (compose.Runnable[*chainInput, *chainOutput], error) {
	s.chainOnce.Do(func() {
		s.chain, s.chainErr = s.buildChain(context.Background())
	})
	return s.chain, s.chainErr
}

func (s *Service) buildChain(ctx context.Context) (compose.Runnable[*chainInput, *chainOutput], error) {
	chain := compose.NewChain[*chainInput, *chainOutput]()

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, in *chainInput) (*contentChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			provider, modelName := s.factory.Describe(in.Provider)
			return &contentChainState{In: in, Provider: provider, Model: modelName}, nil
		}),
		compose.WithNodeName("content.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *contentChainState) (*contentChainState, error) {
			msgs, err := s.registry.ContentMessages(ctx, st.In.Content)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("content.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *contentChainState) (*contentChainState, error) {
			ctx = service.WithFormatProvider(ctx, string(st.In.Content.Format), st.Provider)

			chatModel, err := s.factory.Get(ctx, st.Provider)
			if err != nil {
				return nil, err
			}

			opts := make([]model.Option, 0, 1)
			if st.Model != "" {
				opts = append(opts, model.WithModel(st.Model))
			}
			outMsg, err := chatModel.Generate(ctx, st.Messages, opts...)
			if err != nil {
				return nil, apperrors.ErrLLMProviderFailure.WithError(err).WithDetail("Error: " + err.Error())
			}
			if outMsg == nil {
				return nil, apperrors.ErrEmptyContent
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("content.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *contentChainState) (*chainOutput, error) {
			text := strings.TrimSpace(st.OutMsg.Content)
			if text == "" {
				return nil, apperrors.ErrEmptyContent
			}

			out := &chainOutput{
				Content:  text,
				Provider: st.Provider,
				Model:    st.Model,
			}
			if st.OutMsg.ResponseMeta != nil && st.OutMsg.ResponseMeta.Usage != nil {
				out.PromptTokens = st.OutMsg.ResponseMeta.Usage.PromptTokens
				out.CompletionTokens = st.OutMsg.ResponseMeta.Usage.CompletionTokens
			}
			return out, nil
		}),
		compose.WithNodeName("content.finalize"),
	)

	return chain.Compile(ctx, compose.WithGraphName("content_generate_chain"))
}
